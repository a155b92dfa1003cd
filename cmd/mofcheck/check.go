package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/mofcheck/batch"
	"github.com/katalvlaran/mofcheck/checker"
	"github.com/katalvlaran/mofcheck/config"
	"github.com/katalvlaran/mofcheck/external"
	"github.com/katalvlaran/mofcheck/logger"
	"github.com/katalvlaran/mofcheck/memo"
)

var (
	checkDescriptors []string
	checkIndent      bool
	checkNoPores     bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Compute descriptors for one or more structures",
	Long: `Compute descriptors for one or more structures and print a JSON report.

Structures are screened in parallel (batch.workers). A structure that cannot
be read or screened is reported with its error and does not stop the run;
the command exits non-zero when any structure failed.

Pore descriptors use zeo++ when its binary (external.zeopp_binary) is on
PATH; otherwise is_porous is null.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringSliceVarP(&checkDescriptors, "descriptors", "d", nil, "descriptor subset (default: full catalog)")
	checkCmd.Flags().BoolVar(&checkIndent, "indent", false, "indent the JSON output")
	checkCmd.Flags().BoolVar(&checkNoPores, "no-pores", false, "skip the pore analyzer even if available")
	checkCmd.Flags().Int("workers", 0, "parallel structures (default: GOMAXPROCS)")
	_ = v.BindPFlag("batch.workers", checkCmd.Flags().Lookup("workers"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logger.Component("check")

	m, err := memo.New(cfg.Memo.Size, memo.WithLogger(logger.Component("memo")))
	if err != nil {
		return err
	}
	r, err := batch.New(
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithDescriptors(checkDescriptors...),
		batch.WithMemo(m),
		batch.WithLogger(logger.Component("batch")),
		batch.WithCheckerOptions(checkerOptions(cfg, !checkNoPores)...),
	)
	if err != nil {
		return err
	}

	inputs := make([]batch.Input, len(args))
	for i, p := range args {
		inputs[i] = batch.Input{Path: p}
	}
	rep, err := r.Run(cmd.Context(), inputs)
	if rep != nil {
		if werr := writeJSON(cmd.OutOrStdout(), rep, checkIndent); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}
	st := m.Stats()
	log.Debug("graph cache", zap.Int64("hits", st.Hits), zap.Int64("misses", st.Misses))
	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d structures failed", rep.Failed, len(rep.Items))
	}
	return nil
}

// checkerOptions maps cfg onto checker options and attaches the available
// collaborators.
func checkerOptions(cfg *config.Config, pores bool) []checker.Option {
	opts := []checker.Option{checker.WithConfig(cfg)}
	if !pores {
		return opts
	}
	zeo := external.NewZeoPP(
		external.WithBinary(cfg.External.ZeoPPBinary),
		external.WithTimeout(cfg.Timeout()),
		external.WithLogger(logger.Component("zeopp")),
	)
	if zeo.Available() {
		opts = append(opts, checker.WithPoreAnalyzer(zeo))
	} else {
		logger.Logger.Debug("pore analyzer not available", zap.String("binary", cfg.External.ZeoPPBinary))
	}
	return opts
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
