package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/DrSkyle/campuslab/pkg/campus"
	"github.com/DrSkyle/campuslab/pkg/config"
	"github.com/DrSkyle/campuslab/pkg/engine/aws"
	"github.com/DrSkyle/campuslab/pkg/engine/report"
	"github.com/DrSkyle/campuslab/pkg/storage"
)

func newExportCmd(a *app) *cobra.Command {
	var formats []string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a frame to files or S3",
		Long: `Run one cycle and write the frame as campus_snapshot.{csv,json,yaml,html}.

--out takes a local directory or an s3://bucket/prefix URL. S3 targets use
the default AWS credential chain; AWS_ENDPOINT_URL points at LocalStack.`,
		Example: `  campuslab export --out ./reports
  campuslab export --out s3://campus-reports/daily --format json,csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := parseFormats(formats)
			if err != nil {
				return err
			}
			target, err := storage.ParseTarget(a.settings.OutputDir)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger, err := a.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := a.openStore(ctx, target, logger)
			if err != nil {
				return err
			}

			eng, err := a.newEngine(ctx, logger)
			if err != nil {
				return err
			}
			defer closeEngine(eng, logger)

			frame, err := eng.Cycle(ctx)
			if err != nil {
				return err
			}

			keys, err := exportFrame(ctx, storage.NewUploader(store, logger), fs, frame)
			if err != nil {
				return err
			}
			printExported(cmd.OutOrStdout(), target, keys)
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", config.DefaultOutputDir, "Output directory or s3://bucket/prefix")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "Formats to write (default csv,json,yaml,html)")
	cmd.Flags().String("aws-region", config.DefaultRegion, "AWS region for S3 targets")
	cmd.Flags().String("aws-profile", "", "AWS shared config profile for S3 targets")
	a.bindFlags(cmd.Flags(), map[string]string{
		"output_dir":  "out",
		"aws_region":  "aws-region",
		"aws_profile": "aws-profile",
	})
	return cmd
}

func parseFormats(names []string) ([]report.Format, error) {
	if len(names) == 0 {
		return report.ExportFormats(), nil
	}
	out := make([]report.Format, 0, len(names))
	for _, n := range names {
		f, err := report.ParseFormat(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// openStore resolves the blob store for target. S3 targets verify the
// caller identity before anything is written.
func (a *app) openStore(ctx context.Context, target storage.Target, logger *slog.Logger) (storage.BlobStore, error) {
	if !target.IsS3() {
		return storage.NewLocalStore(target.Dir), nil
	}

	client, err := aws.NewClient(ctx, aws.Options{
		Region:  a.settings.AWSRegion,
		Profile: a.settings.AWSProfile,
		Verbose: strings.EqualFold(a.settings.LogLevel, "debug"),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	account, err := client.VerifyIdentity(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("AWS identity verified", "account", account, "bucket", target.Bucket)

	var optFns []func(*s3.Options)
	if client.Endpoint != "" {
		optFns = append(optFns, func(o *s3.Options) { o.UsePathStyle = true })
	}
	return storage.NewS3Store(client.Config, target.Bucket, target.Prefix, optFns...), nil
}

func exportFrame(ctx context.Context, up *storage.Uploader, formats []report.Format, frame campus.Frame) ([]string, error) {
	keys := make([]string, 0, len(formats))
	for _, f := range formats {
		var buf bytes.Buffer
		if err := report.Encode(&buf, f, frame); err != nil {
			return keys, fmt.Errorf("encode %s: %w", f, err)
		}
		key := report.Filename(f)
		if err := up.Upload(ctx, key, buf.Bytes()); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func printExported(w io.Writer, target storage.Target, keys []string) {
	fmt.Fprintf(w, "[SUCCESS] Export Complete: %s\n", target)
	for _, k := range keys {
		fmt.Fprintf(w, "  - %s\n", k)
	}
}
