// File: cmd/output.go
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/browserless-go/internal/observability"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var codec = json.ConfigCompatibleWithStandardLibrary

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q: must be json or yaml", format)
	}
}

// printResult writes v to w in the requested structured format.
func printResult(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML output: %w", err)
		}
		return enc.Close()
	default:
		out, err := codec.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
}

// print writes v to the command's stdout in the configured format.
func (a *app) print(cmd *cobra.Command, v any) error {
	return printResult(cmd.OutOrStdout(), a.output, v)
}

// writeOutput stores data at path, or streams it to stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	observability.GetLogger().Info("Output written",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// readSource returns inline when set, otherwise the contents of file. Only
// one of them may be given.
func readSource(name, inline, file string) (string, error) {
	switch {
	case inline != "" && file != "":
		return "", fmt.Errorf("--%s and --%s-file are mutually exclusive", name, name)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s file: %w", name, err)
		}
		return string(data), nil
	default:
		return inline, nil
	}
}

// parseJSONObject decodes a JSON object flag value. Empty input yields nil.
func parseJSONObject(name, raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out map[string]any
	if err := codec.UnmarshalFromString(raw, &out); err != nil {
		return nil, fmt.Errorf("--%s must be a JSON object: %w", name, err)
	}
	return out, nil
}
