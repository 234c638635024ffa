package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
	"github.com/nikhilbhutani/voicedeck/internal/deck"
	"github.com/nikhilbhutani/voicedeck/internal/stt"
	"github.com/nikhilbhutani/voicedeck/pkg/textextract"
)

type runOptions struct {
	audio          string
	transcript     string
	transcriptFile string
	language       string
	publish        bool
	endpoint       string
	out            string
}

func newRunCmd(load loader) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create a deck from a recording or a transcript",
		Example: `  voicedeck run --audio note.mp3
  voicedeck run --transcript "Create a title slide saying Hello" --publish`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeck(cmd, load, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.audio, "audio", "", "recording to transcribe (.mp3, .wav, .mp4, .avi)")
	f.StringVar(&opts.transcript, "transcript", "", "transcript text")
	f.StringVar(&opts.transcriptFile, "transcript-file", "", "transcript file (.txt, .md, .pdf, .docx)")
	f.StringVar(&opts.language, "language", "", "language hint for the recording, e.g. en or de")
	f.BoolVar(&opts.publish, "publish", false, "publish the deck after creating it")
	f.StringVar(&opts.endpoint, "endpoint", "", "publish endpoint, overrides PUBLISH_URL")
	f.StringVarP(&opts.out, "out", "o", "", "write the definition to this file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("audio", "transcript", "transcript-file")
	cmd.MarkFlagsOneRequired("audio", "transcript", "transcript-file")
	return cmd
}

func runDeck(cmd *cobra.Command, load loader, opts *runOptions) error {
	_, svc, err := load(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	session := svc.NewSession()

	switch {
	case opts.audio != "":
		data, err := os.ReadFile(opts.audio)
		if err != nil {
			return fmt.Errorf("read audio: %w", err)
		}
		_, err = session.SubmitAudio(ctx, stt.TranscriptionRequest{
			Audio:    data,
			FileName: filepath.Base(opts.audio),
			Language: opts.language,
		})
		if err != nil {
			return apperr.User(err, apperr.MsgCreateFailed)
		}
	case opts.transcriptFile != "":
		data, err := os.ReadFile(opts.transcriptFile)
		if err != nil {
			return fmt.Errorf("read transcript: %w", err)
		}
		doc, err := textextract.FromBytes(opts.transcriptFile, data)
		if err != nil {
			return apperr.User(err, apperr.MsgCreateFailed)
		}
		if _, err := session.SubmitTranscript(ctx, doc.Content); err != nil {
			return apperr.User(err, apperr.MsgCreateFailed)
		}
	default:
		if _, err := session.SubmitTranscript(ctx, opts.transcript); err != nil {
			return apperr.User(err, apperr.MsgCreateFailed)
		}
	}

	def, _ := session.Definition()
	if err := writeDefinition(cmd, opts.out, def); err != nil {
		return err
	}
	sum := deck.Inspect(def)
	if !sum.ValidJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: the reply is not valid JSON")
	}

	if !opts.publish {
		return nil
	}
	res, err := session.PublishTo(ctx, opts.endpoint)
	if err != nil {
		return apperr.User(err, apperr.MsgPublishFailed)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "published (status %d)\n", res.StatusCode)
	return nil
}

func writeDefinition(cmd *cobra.Command, path string, def deck.Definition) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), def)
		return err
	}
	if err := os.WriteFile(path, []byte(def), 0o644); err != nil {
		return fmt.Errorf("write definition: %w", err)
	}
	return nil
}
