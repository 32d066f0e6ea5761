package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/batiprix/pricing-engine/internal/model"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price tasks and proposals from the command line",
}

var (
	taskCategory string
	taskDuration string
	taskPhase    string
	taskLabel    string
	taskRegion   string
	taskMargin   float64
	taskQuantity float64
)

var priceTaskCmd = &cobra.Command{
	Use:   "task",
	Short: "Price a single labor task deterministically",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		line := env.Calc.PriceTask(ctx, model.Task{
			Label:    taskLabel,
			Category: taskCategory,
			Phase:    taskPhase,
			Quantity: taskQuantity,
			Duration: taskDuration,
		}, taskRegion, taskMargin)

		return printJSON(line)
	},
}

var priceProposalCmd = &cobra.Command{
	Use:   "proposal FILE",
	Short: "Price a structured proposal from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		proposal, err := readProposal(args[0])
		if err != nil {
			return err
		}

		priced, err := env.Pricer.PriceProposal(ctx, *proposal)
		if err != nil {
			return err
		}
		return printJSON(priced)
	},
}

func readProposal(path string) (*model.Proposal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read proposal %s", path)
	}
	var p model.Proposal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(err, "parse proposal %s", path)
	}
	if p.ContractorMargin < 0 || p.ContractorMargin > 1 {
		return nil, eris.Errorf("contractor_margin must be between 0 and 1, got %g", p.ContractorMargin)
	}
	return &p, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	priceTaskCmd.Flags().StringVar(&taskCategory, "category", "General", "task category")
	priceTaskCmd.Flags().StringVar(&taskDuration, "duration", "1h", `duration string, e.g. "2h", "1 day"`)
	priceTaskCmd.Flags().StringVar(&taskPhase, "phase", "Install", "phase: Prep | Install | Finish")
	priceTaskCmd.Flags().StringVar(&taskLabel, "label", "", "task label (used for feedback lookup)")
	priceTaskCmd.Flags().StringVar(&taskRegion, "region", "", "region name (e.g. ile-de-france)")
	priceTaskCmd.Flags().Float64Var(&taskMargin, "margin", 0, "contractor margin fraction (e.g. 0.15)")
	priceTaskCmd.Flags().Float64Var(&taskQuantity, "quantity", 1, "quantity")

	priceCmd.AddCommand(priceTaskCmd)
	priceCmd.AddCommand(priceProposalCmd)
	rootCmd.AddCommand(priceCmd)
}
