package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/fedflow/internal/artifact"
	"github.com/shaiso/fedflow/internal/telemetry"
)

// NewArtifactCmd создаёт группу команд для работы с хранилищем артефактов.
func NewArtifactCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifact",
		Short: "Manage artifacts in object storage",
	}

	cmd.AddCommand(
		newArtifactUploadCmd(outputFn),
		newArtifactDownloadCmd(outputFn),
		newArtifactPresignCmd(outputFn),
		newArtifactDeleteCmd(outputFn),
	)

	return cmd
}

// artifactStore строит Store из окружения (MINIO_*).
func artifactStore() (*artifact.Store, error) {
	return artifact.NewStoreFromEnv(telemetry.SetupLogger())
}

// splitURI разбирает "s3://bucket/object" на бакет и объект.
func splitURI(uri string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid artifact URI %q, expected s3://bucket/object", uri)
	}
	return parts[0], parts[1], nil
}

func newArtifactUploadCmd(outputFn func() *Output) *cobra.Command {
	var bucket, object string

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file to object storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			store, err := artifactStore()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			if object == "" {
				object = filepath.Base(args[0])
			}

			uri, err := store.Save(cmd.Context(), bucket, object, data, "application/octet-stream")
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Artifact uploaded: %s", uri))
			out.Print(
				[]string{"URI", "SIZE"},
				[][]string{{uri, fmt.Sprintf("%d", len(data))}},
				map[string]any{"uri": uri, "size": len(data)},
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "fedflow-artifacts", "Target bucket")
	cmd.Flags().StringVar(&object, "object", "", "Object name (file name if empty)")

	return cmd
}

func newArtifactDownloadCmd(outputFn func() *Output) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "download URI",
		Short: "Download an artifact by URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			store, err := artifactStore()
			if err != nil {
				return err
			}

			bucket, object, err := splitURI(args[0])
			if err != nil {
				return err
			}

			data, err := store.Download(cmd.Context(), bucket, object)
			if err != nil {
				return err
			}

			if target == "" {
				target = filepath.Base(object)
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("write file: %w", err)
			}

			out.Success(fmt.Sprintf("Artifact downloaded to %s (%d bytes)", target, len(data)))
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "output", "", "Target file (object name if empty)")

	return cmd
}

func newArtifactPresignCmd(outputFn func() *Output) *cobra.Command {
	var expiry time.Duration

	cmd := &cobra.Command{
		Use:   "presign URI",
		Short: "Generate a temporary download link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			store, err := artifactStore()
			if err != nil {
				return err
			}

			bucket, object, err := splitURI(args[0])
			if err != nil {
				return err
			}

			url, err := store.PresignedURL(cmd.Context(), bucket, object, expiry)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"URI", "URL"},
				[][]string{{args[0], url}},
				map[string]string{"uri": args[0], "url": url},
			)
			return nil
		},
	}

	cmd.Flags().DurationVar(&expiry, "expiry", artifact.DefaultPresignExpiry, "Link lifetime")

	return cmd
}

func newArtifactDeleteCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete URI",
		Short: "Delete an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			store, err := artifactStore()
			if err != nil {
				return err
			}

			bucket, object, err := splitURI(args[0])
			if err != nil {
				return err
			}

			if err := store.Delete(cmd.Context(), bucket, object); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Artifact deleted: %s", args[0]))
			return nil
		},
	}
}
