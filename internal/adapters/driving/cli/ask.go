package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/earlyed-hq/asked/internal/core/domain"
	"github.com/earlyed-hq/asked/internal/core/services"
)

var (
	askSetting string
	askJSON    bool
)

// scopeDetector backs the out-of-scope hint shown before answering.
var scopeDetector = services.NewScopeDetector()

// Output styles.
var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	scoreStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Retrieve cited compliance context for a question",
	Long: `Runs the retrieval pipeline for one question and prints the assembled,
source-attributed context together with a confidence summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSetting, "setting", "s", "both",
		"provision type: nursery, club or both")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if contextService == nil {
		return errors.New("context service not configured")
	}

	setting, err := parseSetting(askSetting)
	if err != nil {
		return err
	}

	if !askJSON && !scopeDetector.InScope(question) {
		cmd.Println(faintStyle.Render(
			"Note: this doesn't look like a childcare compliance question; answering anyway."))
	}

	result, err := contextService.GetRelevantContext(cmd.Context(), question, setting)
	if err != nil {
		return fmt.Errorf("retrieve context: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, result)
	}

	return outputAskPretty(cmd, result)
}

func parseSetting(s string) (domain.Setting, error) {
	switch domain.Setting(s) {
	case "", domain.SettingBoth:
		return domain.SettingBoth, nil
	case domain.SettingNursery:
		return domain.SettingNursery, nil
	case domain.SettingClub:
		return domain.SettingClub, nil
	default:
		return "", fmt.Errorf("unknown setting %q (want nursery, club or both)", s)
	}
}

func outputAskJSON(cmd *cobra.Command, result domain.ContextResult) error {
	out := struct {
		Context          string  `json:"context"`
		ResponseTemplate string  `json:"response_template,omitempty"`
		Score            float64 `json:"score"`
		Method           string  `json:"method"`
		ResultCount      int     `json:"result_count"`
		BestSimilarity   float64 `json:"best_similarity"`
	}{
		Context:          result.Context,
		ResponseTemplate: result.ResponseTemplate,
		Score:            result.Confidence.Score,
		Method:           string(result.Confidence.Method),
		ResultCount:      result.Confidence.ResultCount,
		BestSimilarity:   result.Confidence.BestSimilarity,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskPretty(cmd *cobra.Command, result domain.ContextResult) error {
	if result.Context == "" {
		cmd.Println(faintStyle.Render("No relevant guidance found."))
		return nil
	}

	cmd.Println(headingStyle.Render("Context"))
	cmd.Println()
	cmd.Println(result.Context)
	cmd.Println()

	if result.ResponseTemplate != "" {
		cmd.Println(headingStyle.Render("Answer guidance"))
		cmd.Println(result.ResponseTemplate)
		cmd.Println()
	}

	c := result.Confidence
	cmd.Printf("%s %s via %s (%d results, best similarity %.2f)\n",
		headingStyle.Render("Confidence:"),
		scoreStyle.Render(fmt.Sprintf("%.2f", c.Score)),
		c.Method, c.ResultCount, c.BestSimilarity)

	return nil
}
