package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
	"github.com/nikhilbhutani/voicedeck/internal/deck"
)

type publishOptions struct {
	definitionFile string
	endpoint       string
}

func newPublishCmd(load loader) *cobra.Command {
	opts := &publishOptions{}
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish an existing deck definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return publishDeck(cmd, load, opts)
		},
	}
	cmd.Flags().StringVar(&opts.definitionFile, "definition-file", "", `definition file, "-" reads stdin`)
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "publish endpoint, overrides PUBLISH_URL")
	_ = cmd.MarkFlagRequired("definition-file")
	return cmd
}

func publishDeck(cmd *cobra.Command, load loader, opts *publishOptions) error {
	var data []byte
	var err error
	if opts.definitionFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(opts.definitionFile)
	}
	if err != nil {
		return fmt.Errorf("read definition: %w", err)
	}
	_, svc, err := load(cmd)
	if err != nil {
		return err
	}
	res, err := svc.Publish(cmd.Context(), deck.Definition(data), opts.endpoint)
	if err != nil {
		return apperr.User(err, apperr.MsgPublishFailed)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published (status %d)\n", res.StatusCode)
	return nil
}
