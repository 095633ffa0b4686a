package cli

import (
	"fmt"

	"resumeforge/internal/common"
	"resumeforge/internal/extract"
	"resumeforge/internal/tailor"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file] [job-description-file]",
	Short: "Score a resume against a job description without calling the AI",
	Long: `Score a resume against a job description using keyword matching only.
No AI call is made, so no API key is required. The resume may be a PDF,
DOCX, or plain text file.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var scoreConfig common.CommandConfig

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	outputHandler := common.NewOutputHandler(logger)

	resumeData, err := fileProcessor.ReadResumeFile(args[0])
	if err != nil {
		return err
	}

	jobDescription, err := fileProcessor.ReadTextFile(args[1])
	if err != nil {
		return err
	}

	resumeText, format, err := extract.Text(resumeData)
	if err != nil {
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	logger.Info("Scoring resume",
		"resume_file", args[0],
		"resume_format", string(format),
		"resume_chars", len(resumeText),
		"job_chars", len(jobDescription))

	engine := tailor.NewEngine(nil, cfg.Matching, logger)
	match, err := engine.Score(jobDescription, resumeText)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(match, scoreConfig)
}
