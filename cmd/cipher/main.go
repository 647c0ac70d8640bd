package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/classic-cipher-go/internal/cipher"
	"github.com/classic-cipher-go/internal/config"
)

// options collects the root command flags
type options struct {
	inputFile  string
	outputFile string
	ciphers    []string
	keys       []string
	encrypt    bool
	decrypt    bool
	multi      int
	workers    int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "cipher",
		Short: "Encrypt or decrypt alphanumeric text with classical ciphers",
		Long: `Transform text through a pipeline of classical ciphers.

Input is normalized before any cipher runs: letters are upper-cased,
digits are spelled out as words (7 becomes SEVEN) and everything else
is dropped. Encryption applies the stages in the order given;
decryption applies them in reversed order, so the same flags invert an
earlier encryption.

Examples:
  echo hello | cipher -c caesar -k 3
  cipher -c vigenere -k KEY -c caesar -k 7 -i note.txt -o note.enc
  cipher --decrypt -c vigenere -k KEY -c caesar -k 7 -i note.enc`,
		Version:      config.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVarP(&o.inputFile, "input", "i", "", "read text from `FILE` instead of stdin")
	flags.StringVarP(&o.outputFile, "output", "o", "", "write the result to `FILE` instead of stdout")
	flags.StringArrayVarP(&o.ciphers, "cipher", "c", []string{"caesar"}, "cipher to apply, repeat to build a pipeline (caesar, playfair, vigenere)")
	flags.StringArrayVarP(&o.keys, "key", "k", nil, "key for the matching --cipher flag, repeat per stage (default null key)")
	flags.BoolVar(&o.encrypt, "encrypt", false, "encrypt the input (default)")
	flags.BoolVar(&o.decrypt, "decrypt", false, "decrypt the input")
	flags.IntVar(&o.multi, "multi-cipher", 0, "expected pipeline length, must match the number of --cipher flags")
	flags.IntVar(&o.workers, "workers", cipher.DefaultWorkers, "chunk workers for caesar stages")
	cmd.MarkFlagsMutuallyExclusive("encrypt", "decrypt")

	return cmd
}

func (o *options) run(cmd *cobra.Command) error {
	mode := cipher.ModeEncrypt
	if o.decrypt {
		mode = cipher.ModeDecrypt
	}

	stages, err := o.buildStages()
	if err != nil {
		return err
	}

	pipeline, err := cipher.NewPipeline(stages, cipher.Options{Workers: o.workers})
	if err != nil {
		return err
	}

	text, err := o.readInput(cmd)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(cmd.Context(), cipher.Normalize(text), mode)
	if err != nil {
		return err
	}

	return o.writeOutput(cmd, result)
}

// buildStages pairs each --cipher with its --key by position. A stage
// without a key gets the null key, which Caesar and Playfair accept
// and Vigenere rejects at construction.
func (o *options) buildStages() ([]cipher.Stage, error) {
	if o.multi > 0 && o.multi != len(o.ciphers) {
		return nil, fmt.Errorf("--multi-cipher %d does not match %d --cipher flags", o.multi, len(o.ciphers))
	}
	if len(o.keys) > len(o.ciphers) {
		return nil, fmt.Errorf("%d --key flags for %d --cipher flags", len(o.keys), len(o.ciphers))
	}

	stages := make([]cipher.Stage, len(o.ciphers))
	for i, name := range o.ciphers {
		kind, err := cipher.ParseKind(name)
		if err != nil {
			return nil, err
		}
		var key string
		if i < len(o.keys) {
			key = o.keys[i]
		}
		stages[i] = cipher.Stage{Kind: kind, Key: key}
	}
	return stages, nil
}

func (o *options) readInput(cmd *cobra.Command) (string, error) {
	if o.inputFile != "" {
		data, err := os.ReadFile(o.inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", o.inputFile, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func (o *options) writeOutput(cmd *cobra.Command, result string) error {
	if o.outputFile != "" {
		if err := os.WriteFile(o.outputFile, []byte(result+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.outputFile, err)
		}
		return nil
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), result)
	return err
}
