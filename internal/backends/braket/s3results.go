package braket

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
)

// taskResult is the slice of the Braket results.json document the adapter
// consumes. Devices report either raw per-shot measurements or aggregated
// probabilities, depending on the device family.
type taskResult struct {
	Measurements             [][]int            `json:"measurements"`
	MeasurementProbabilities map[string]float64 `json:"measurementProbabilities"`
	MeasuredQubits           []int              `json:"measuredQubits"`
	TaskMetadata             struct {
		ID     string `json:"id"`
		Shots  int    `json:"shots"`
		Status string `json:"status"`
	} `json:"taskMetadata"`
}

// ResultLoader downloads completed quantum task results from the S3 output
// location the Braket service writes them to.
type ResultLoader struct {
	downloader *manager.Downloader
}

// NewResultLoader builds a loader with credentials and region from the
// default AWS configuration chain. The region option overrides the chain
// when non-empty.
func NewResultLoader(ctx context.Context, region string) (*ResultLoader, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}
	return &ResultLoader{downloader: manager.NewDownloader(s3.NewFromConfig(cfg))}, nil
}

// Load fetches and normalizes the results.json document at the given
// s3://bucket/key URI.
func (l *ResultLoader) Load(ctx context.Context, uri string) (quantum.Counts, error) {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return nil, err
	}

	buf := manager.NewWriteAtBuffer(nil)
	_, err = l.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("downloading task result %s: %w", uri, err)
	}

	return ParseTaskResult(buf.Bytes())
}

// ParseTaskResult normalizes a Braket results.json document into bitstring
// counts. Braket measurement rows list qubit 0 first; keys are flipped to
// the big-endian convention shared by all adapters.
func ParseTaskResult(data []byte) (quantum.Counts, error) {
	var result taskResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing task result: %w", err)
	}

	counts := make(quantum.Counts)

	if len(result.Measurements) > 0 {
		for _, row := range result.Measurements {
			var b strings.Builder
			for i := len(row) - 1; i >= 0; i-- {
				if row[i] != 0 {
					b.WriteByte('1')
				} else {
					b.WriteByte('0')
				}
			}
			counts[b.String()]++
		}
		return counts, nil
	}

	if len(result.MeasurementProbabilities) > 0 {
		shots := result.TaskMetadata.Shots
		if shots <= 0 {
			return nil, fmt.Errorf("task result has probabilities but no shot count")
		}
		// largest-remainder rounding keeps the total equal to the task's
		// shot count
		type share struct {
			outcome   string
			count     int
			remainder float64
		}
		shares := make([]share, 0, len(result.MeasurementProbabilities))
		assigned := 0
		for outcome, p := range result.MeasurementProbabilities {
			exact := p * float64(shots)
			n := int(math.Floor(exact))
			shares = append(shares, share{reverseString(outcome), n, exact - float64(n)})
			assigned += n
		}
		sort.Slice(shares, func(i, j int) bool {
			if shares[i].remainder != shares[j].remainder {
				return shares[i].remainder > shares[j].remainder
			}
			return shares[i].outcome < shares[j].outcome
		})
		for i := 0; assigned < shots && i < len(shares); i++ {
			shares[i].count++
			assigned++
		}
		for _, s := range shares {
			if s.count > 0 {
				counts[s.outcome] = s.count
			}
		}
		return counts, nil
	}

	return nil, fmt.Errorf("task result contains no measurements")
}

func splitS3URI(uri string) (bucket, key string, err error) {
	trimmed, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("expected s3:// URI, got %q", uri)
	}
	bucket, key, ok = strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("malformed S3 URI %q", uri)
	}
	return bucket, key, nil
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
