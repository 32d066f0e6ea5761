package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/batiprix/pricing-engine/internal/model"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Inspect and manage the price feedback store",
}

var (
	fbLabel      string
	fbActual     float64
	fbType       string
	fbProposalID string
	fbItemType   string
	fbComment    string
	fbBase       float64
	fbLimit      int
)

var feedbackSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Record a price correction",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		actual := fbActual
		id, err := env.Store.Append(ctx, model.FeedbackRecord{
			ProposalID:   fbProposalID,
			ItemType:     model.ItemType(fbItemType),
			ItemLabel:    fbLabel,
			FeedbackType: fbType,
			ActualPrice:  &actual,
			Comment:      fbComment,
		})
		if err != nil {
			return err
		}

		zap.L().Info("feedback saved", zap.String("id", id), zap.String("label", fbLabel))
		return printJSON(map[string]string{"status": "ok", "id": id})
	},
}

var feedbackAdjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Compute the feedback adjustment for a label",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		adj, err := env.Adjuster.Compute(ctx, fbLabel, fbBase)
		if err != nil {
			return err
		}

		return printJSON(map[string]any{
			"item_label":     fbLabel,
			"base_price":     fbBase,
			"adjustment":     adj,
			"adjusted_price": fbBase + adj,
		})
	},
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "Dump the most recent feedback records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		recs, err := env.Store.List(ctx, fbLimit)
		if err != nil {
			return err
		}
		return printJSON(recs)
	},
}

func init() {
	feedbackSaveCmd.Flags().StringVar(&fbLabel, "label", "", "item label")
	feedbackSaveCmd.Flags().Float64Var(&fbActual, "actual", 0, "actual price paid")
	feedbackSaveCmd.Flags().StringVar(&fbType, "type", "", "feedback type (e.g. too_low, too_high)")
	feedbackSaveCmd.Flags().StringVar(&fbProposalID, "proposal-id", "", "proposal ID")
	feedbackSaveCmd.Flags().StringVar(&fbItemType, "item-type", "task", "item type: task or material")
	feedbackSaveCmd.Flags().StringVar(&fbComment, "comment", "", "comment")
	feedbackSaveCmd.MarkFlagRequired("label")  //nolint:errcheck
	feedbackSaveCmd.MarkFlagRequired("actual") //nolint:errcheck

	feedbackAdjustCmd.Flags().StringVar(&fbLabel, "label", "", "item label")
	feedbackAdjustCmd.Flags().Float64Var(&fbBase, "base", 0, "base price to adjust")
	feedbackAdjustCmd.MarkFlagRequired("label") //nolint:errcheck

	feedbackListCmd.Flags().IntVar(&fbLimit, "limit", 100, "max records to list")

	feedbackCmd.AddCommand(feedbackSaveCmd)
	feedbackCmd.AddCommand(feedbackAdjustCmd)
	feedbackCmd.AddCommand(feedbackListCmd)
	rootCmd.AddCommand(feedbackCmd)
}
