package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/dualsub/internal/dualsub"
	"github.com/mgpai22/dualsub/internal/subtitle"
	"github.com/mgpai22/dualsub/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [vtt_file]",
	Short: "Translate a WebVTT track into the secondary language",
	Long: `Translate a WebVTT track into the secondary language and write it out.

LLM providers (gemini, openai, anthropic) translate in batches. The google
and deepl providers translate one cue per request. Cue timings are kept.

The --overlay flag writes bilingual subtitles with the original text on top
and the translation underneath.

Examples:
  dualsub translate movie.en.vtt -s vi
  dualsub translate movie.en.vtt -s ja --provider gemini --overlay -o dual.ass
  dualsub translate movie.en.vtt -s es --provider openai --model gpt-5-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("output", "o", "", "Output file path (.vtt, .srt or .ass)")
	translateCmd.Flags().
		Bool("overlay", false, "Write original and translated text together (bilingual subtitles)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set the provider's *_API_KEY env var)")
	translateCmd.Flags().
		String("provider", "", "Translation provider (google, deepl, gemini, openai, anthropic)")
	translateCmd.Flags().
		String("model", "", "Model to use for LLM providers")
	translateCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	translateCmd.Flags().
		Int("concurrency", 0, "Number of parallel translation workers (default from config)")
	translateCmd.Flags().
		Int("batch-size", translate.DefaultBatchSize, "Number of cues per LLM request")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	ctx := context.Background()

	outputPath, _ := cmd.Flags().GetString("output")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	modelOverride, _ := cmd.Flags().GetBool("model-override")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	if providerStr == "" {
		providerStr = cfg.Translation.Provider
	}
	provider := translate.Provider(strings.ToLower(providerStr))
	if model == "" && provider == translate.Provider(cfg.Translation.Provider) {
		model = cfg.Translation.Model
	}
	if concurrency == 0 {
		concurrency = cfg.Translation.Concurrency
	}

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}
	if err := validateModel(provider, model, modelOverride); err != nil {
		return err
	}

	source, target := cfg.Languages.Primary, cfg.Languages.Secondary
	if strings.EqualFold(source, target) {
		return fmt.Errorf(
			"primary language %q and secondary language %q cannot be the same",
			source,
			target,
		)
	}

	if apiKey == "" {
		apiKey = cfg.Translation.APIKey
	}
	if apiKey == "" {
		if env := provider.APIKeyEnv(); env != "" {
			apiKey = os.Getenv(env)
			if apiKey == "" {
				return fmt.Errorf(
					"API key is required: use --api-key flag or set %s environment variable",
					env,
				)
			}
		}
	}

	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		baseName := strings.TrimSuffix(inputPath, ext)
		if overlay {
			outputPath = fmt.Sprintf("%s.%s.overlay%s", baseName, target, ext)
		} else {
			outputPath = fmt.Sprintf("%s.%s%s", baseName, target, ext)
		}
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read subtitle file: %w", err)
	}
	cues, err := subtitle.Parse(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(cues) == 0 {
		return fmt.Errorf("subtitle file contains no cues")
	}

	logger.Infow("Starting subtitle translation",
		"input", inputPath,
		"output", outputPath,
		"cues", len(cues),
		"provider", provider,
		"target_language", target,
		"overlay", overlay,
	)

	opts := translate.Options{
		InputLanguage:  source,
		TargetLanguage: target,
		Model:          model,
		Prompt:         cfg.Translation.Prompt,
		BatchSize:      batchSize,
		BaseURL:        cfg.Translation.BaseURL,
		Timeout:        cfg.TranslationTimeout(),
	}

	var translated subtitle.Sequence
	switch provider {
	case translate.ProviderGemini, translate.ProviderOpenAI, translate.ProviderAnthropic:
		translated, err = translateBatched(ctx, provider, apiKey, opts, cues, concurrency)
	default:
		translated, err = translatePerCue(ctx, provider, apiKey, opts, cues, concurrency)
	}
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	logger.Infow("Translation complete", "cues", len(translated))

	out := &subtitle.Bilingual{
		Primary:        translated,
		Merged:         translated,
		PrimaryStyle:   cfg.Styles.Secondary.LaneStyle(),
		SecondaryStyle: cfg.Styles.Secondary.LaneStyle(),
	}
	if overlay {
		synchronizer, err := dualsub.NewSynchronizer(cues, dualsub.Options{Secondary: translated})
		if err != nil {
			return err
		}
		if err := synchronizer.Build(ctx); err != nil {
			return err
		}
		out, err = synchronizer.Bilingual(
			cfg.Styles.Primary.LaneStyle(),
			cfg.Styles.Secondary.LaneStyle(),
		)
		if err != nil {
			return err
		}
	}

	writer, err := subtitle.NewWriter(subtitle.GetFormatFromExtension(outputPath))
	if err != nil {
		return err
	}
	if err := writer.Write(out, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles translated successfully: %s\n", absOutput)
	fmt.Printf("  Cues: %d\n", len(translated))
	fmt.Printf("  Target language: %s\n", target)
	if overlay {
		fmt.Printf("  Mode: bilingual overlay\n")
	}
	return nil
}

// sends cues to an LLM in batches on the provider's worker pool
func translateBatched(
	ctx context.Context,
	provider translate.Provider,
	apiKey string,
	opts translate.Options,
	cues subtitle.Sequence,
	concurrency int,
) (subtitle.Sequence, error) {
	translator, err := translate.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	items := make([]translate.TranslationItem, len(cues))
	for i, cue := range cues {
		items[i] = translate.TranslationItem{Index: i, Text: cue.Text}
	}

	var results []translate.TranslationResult
	if concurrentTranslator, ok := translator.(translate.ConcurrentTranslator); ok {
		results, err = concurrentTranslator.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = translator.Translate(ctx, items)
	}
	if err != nil {
		return nil, err
	}

	out := cues.Clone()
	seen := make([]bool, len(cues))
	for _, result := range results {
		if result.Index < 0 || result.Index >= len(cues) {
			logger.Warnw("Skipping invalid result index",
				"index", result.Index,
				"max", len(cues)-1,
			)
			continue
		}
		out[result.Index].Text = result.Text
		seen[result.Index] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, &dualsub.TranslationError{
				Index: i,
				Text:  cues[i].Text,
				Err:   fmt.Errorf("missing from provider response"),
			}
		}
	}
	return out, nil
}

// translates each cue through the synchronizer's fallback derivation
func translatePerCue(
	ctx context.Context,
	provider translate.Provider,
	apiKey string,
	opts translate.Options,
	cues subtitle.Sequence,
	concurrency int,
) (subtitle.Sequence, error) {
	translator, err := translate.NewTextTranslator(ctx, provider, apiKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	synchronizer, err := dualsub.NewSynchronizer(cues, dualsub.Options{
		Translator:  translator,
		Concurrency: concurrency,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	if err := synchronizer.Build(ctx); err != nil {
		return nil, err
	}
	return synchronizer.Sequence(dualsub.LaneSecondary)
}
