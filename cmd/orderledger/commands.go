package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/orderledger/backend/config"
	"github.com/orderledger/backend/internal/domain"
	"github.com/orderledger/backend/internal/infrastructure/diagnostics"
	"github.com/orderledger/backend/internal/usecase"
)

// ioFlags are shared by every subcommand
type ioFlags struct {
	input  string
	output string
}

func (f *ioFlags) register(cmd *cobra.Command, inputHelp string) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", inputHelp)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("input")
}

// newRootCommand builds the CLI. loadConfig is injected so tests can run
// without touching the environment.
func newRootCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	root := &cobra.Command{
		Use:          "orderledger",
		Short:        "Reconcile scraped order history into priced bookkeeping rows",
		SilenceUsage: true,
	}

	root.AddCommand(newReconcileCommand(loadConfig), newExportCommand(loadConfig))
	return root
}

func newReconcileCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var flags ioFlags

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Price the line items of a batch of orders from their detail-page markup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var inputs []domain.OrderInput
			if err := readList(flags.input, &inputs); err != nil {
				return err
			}

			recorder, closer, err := openRecorder(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			reconciler, err := usecase.NewReconciliationService(nil, recorder, usecase.ReconciliationServiceConfig{
				BaseOrigin:         cfg.Reconcile.BaseOrigin,
				EnableDebugLogging: cfg.Reconcile.Debug,
			})
			if err != nil {
				return err
			}

			result := reconciler.ReconcileBatch(cmd.Context(), inputs)
			for _, failed := range result.Failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "order %s failed: %s\n", failed.OrderID, failed.Error)
			}
			log.Printf("[CLI] Run %s: %d reconciled, %d failed, %d warnings",
				result.RunID, len(result.Orders), len(result.Failed), len(recorder.Warnings()))

			return writeJSON(flags.output, cmd.OutOrStdout(), result)
		},
	}

	flags.register(cmd, `batch file: {"orders":[{"order":{...},"pages":["<html>..."]}]} or a bare list`)
	return cmd
}

func newExportCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var flags ioFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Turn reconciled orders into bookkeeping rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var orders []domain.Order
			if err := readList(flags.input, &orders); err != nil {
				return err
			}

			recorder, closer, err := openRecorder(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			dates := usecase.NewDateNormalizer(nil)
			exporter := usecase.NewExportBuilder(usecase.NewStatusClassifier(dates), dates, recorder, cfg.Reconcile.Currency)

			rows := []domain.ExportRow{}
			for _, order := range orders {
				rows = append(rows, exporter.BuildRows(order)...)
			}

			return writeJSON(flags.output, cmd.OutOrStdout(), map[string][]domain.ExportRow{"rows": rows})
		},
	}

	flags.register(cmd, `orders file: {"orders":[{...}]} or a bare list`)
	return cmd
}

// readList decodes either a bare JSON array or an object wrapping it under "orders"
func readList(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
		return nil
	}

	var wrapper struct {
		Orders json.RawMessage `json:"orders"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	if len(wrapper.Orders) == 0 {
		return fmt.Errorf("decoding %s: %w: no orders", path, domain.ErrInvalidRequest)
	}
	if err := json.Unmarshal(wrapper.Orders, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v indented to path, or to fallback when path is empty
func writeJSON(path string, fallback io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = fallback.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// openRecorder appends diagnostics to the configured file, or to w
func openRecorder(cfg *config.Config, w io.Writer) (*diagnostics.Recorder, io.Closer, error) {
	if cfg.Reconcile.DiagnosticsFile == "" {
		return diagnostics.NewRecorder(w, cfg.Reconcile.Debug), io.NopCloser(nil), nil
	}
	return diagnostics.OpenFile(cfg.Reconcile.DiagnosticsFile, cfg.Reconcile.Debug)
}
