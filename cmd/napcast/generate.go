package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ekisa-team/napcast/internal/service"
	"github.com/spf13/cobra"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		textFile  string
		voiceMode int
		filename  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one audio file from a text file",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), textFile)
			if err != nil {
				return err
			}

			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			req := &service.GenerationRequest{Text: text}
			if cmd.Flags().Changed("voice-mode") {
				req.VoiceMode = &voiceMode
			}
			if cmd.Flags().Changed("filename") {
				req.Name = &filename
			}

			res, err := a.voice.Generate(ctx, req)
			if err != nil {
				var serr *service.Error
				if errors.As(err, &serr) && serr.Detail != "" {
					return fmt.Errorf("%s: %s", serr.Message, serr.Detail)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", res.AudioRef)
			return nil
		},
	}

	cmd.Flags().StringVarP(&textFile, "text-file", "t", "-", "File with the text to synthesize, - for stdin")
	cmd.Flags().IntVarP(&voiceMode, "voice-mode", "m", 0, "Voice preset, 0 to 8")
	cmd.Flags().StringVarP(&filename, "filename", "f", service.DefaultName, "Artifact base name")

	return cmd
}

func readText(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read text from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}
