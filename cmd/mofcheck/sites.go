package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/mofcheck/checker"
	"github.com/katalvlaran/mofcheck/checks"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/logger"
	"github.com/katalvlaran/mofcheck/oms"
	"github.com/katalvlaran/mofcheck/structure"
)

var sitesCmd = &cobra.Command{
	Use:   "sites <file>",
	Short: "Show the per-site analysis of one structure",
	Long: `Show the open metal site analysis of every metal, the flagged atoms of every
check and the suggested positions of missing hydrogens.`,
	Args: cobra.ExactArgs(1),
	RunE: runSites,
}

type siteReport struct {
	Name       string                    `json:"name"`
	Strategy   string                    `json:"strategy"`
	Metals     map[string]oms.SiteResult `json:"metal_sites,omitempty"`
	Checks     map[string]checks.Result  `json:"checks"`
	Candidates map[string][][]geom.Vec3  `json:"candidates,omitempty"`
}

func runSites(cmd *cobra.Command, args []string) error {
	s, err := structure.Load(args[0], nil)
	if err != nil {
		return err
	}
	c, err := checker.New(s,
		checker.WithContext(cmd.Context()),
		checker.WithLogger(logger.Component("checker")),
		checker.WithConfig(cfg),
	)
	if err != nil {
		return err
	}

	results, err := c.Results()
	if err != nil {
		return err
	}
	rep := siteReport{Name: s.Name(), Strategy: string(c.Strategy()), Checks: results}
	if md, err := c.MetalDescriptors(); err == nil {
		rep.Metals = md
	}
	rep.Candidates = make(map[string][][]geom.Vec3)
	for _, key := range []string{checks.KeyUnderCoordinatedCarbon, checks.KeyUnderCoordinatedNitrogen} {
		cands, err := c.Candidates(key)
		if err != nil {
			return err
		}
		if len(cands) > 0 {
			rep.Candidates[key] = cands
		}
	}
	return writeJSON(cmd.OutOrStdout(), rep, true)
}
