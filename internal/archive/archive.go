package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/swiss-pairings/internal/config"
	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrDisabled = errors.New("standings archive is not configured")

// Snapshot is the document written for one tournament after a given round.
type Snapshot struct {
	Tournament  swiss.Tournament     `json:"tournament"`
	Round       int                  `json:"round"`
	GeneratedAt time.Time            `json:"generated_at"`
	Standings   []swiss.StandingsRow `json:"standings"`
}

func NewSnapshot(tournament swiss.Tournament, matches []swiss.Match, standings []swiss.StandingsRow) Snapshot {
	round := 0
	for _, m := range matches {
		round = max(round, m.RoundNumber)
	}
	return Snapshot{
		Tournament:  tournament,
		Round:       round,
		GeneratedAt: time.Now().UTC(),
		Standings:   standings,
	}
}

type Exporter interface {
	Export(ctx context.Context, snapshot Snapshot) (string, error)
}

// Disabled rejects every export.
type Disabled struct{}

func (Disabled) Export(context.Context, Snapshot) (string, error) {
	return "", ErrDisabled
}

func Key(tournamentID uuid.UUID, round int) string {
	return fmt.Sprintf("tournaments/%s/standings-round-%d.json", tournamentID, round)
}

// objectPutter is the part of *s3.Client the exporter uses.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Exporter struct {
	client objectPutter
	bucket string
}

// New returns Disabled when no bucket is configured.
func New(ctx context.Context, cfg config.ArchiveConfig) (Exporter, error) {
	if !cfg.Enabled() {
		return Disabled{}, nil
	}

	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Exporter{client: client, bucket: cfg.Bucket}, nil
}

func (e *S3Exporter) Export(ctx context.Context, snapshot Snapshot) (string, error) {
	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := Key(snapshot.Tournament.ID, snapshot.Round)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
