// Command casegen runs the case pipeline from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"legalaid-backend/config"
	"legalaid-backend/gemini"
	"legalaid-backend/legal"
	"legalaid-backend/logger"
	"legalaid-backend/models"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "casegen"
)

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Generate legal case drafts, law references and NGO suggestions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.AddCommand(generateCmd(), lawsCmd(), ngosCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

func generateCmd() *cobra.Command {
	var (
		req     models.CaseRequest
		static  bool
		offline bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the full case pipeline and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
				return fmt.Errorf("--title and --description are required")
			}
			tables, err := legal.LoadTables()
			if err != nil {
				return err
			}

			pc := legal.PipelineConfig{StepsMode: legal.StepsGenerative, DraftAnalysis: true}
			if static {
				pc.StepsMode = legal.StepsStatic
			}
			if !offline {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				log, err := logger.New(cfg.AppEnv)
				if err != nil {
					return err
				}
				defer log.Sync()
				pc.Logger = log
				pc.Timeout = cfg.GenerationTimeout
				pc.DraftAnalysis = cfg.DraftAnalysisEnabled
				if client := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiAPIURL, gemini.ClientWithTimeout(cfg.GenerationTimeout), gemini.ClientWithLogger(log)); client.Configured() {
					pc.Generator = client
				}
			}

			res := legal.NewPipeline(tables, pc).Process(context.Background(), req)
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "Case title")
	cmd.Flags().StringVar(&req.Description, "description", "", "What happened")
	cmd.Flags().StringVar(&req.Category, "category", "", "Legal category, e.g. \"consumer protection\"")
	cmd.Flags().StringVar(&req.Location, "location", "", "City or state")
	cmd.Flags().BoolVar(&static, "static", false, "Use the built-in next-steps checklists")
	cmd.Flags().BoolVar(&offline, "offline", false, "Do not call the text-generation service")
	return cmd
}

func lawsCmd() *cobra.Command {
	var query, category, location string
	cmd := &cobra.Command{
		Use:   "laws",
		Short: "Look up applicable laws",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := legal.LoadTables()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), legal.NewLawLookup(tables).Lookup(query, category, location))
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Description of the issue")
	cmd.Flags().StringVar(&category, "category", "", "Legal category")
	cmd.Flags().StringVar(&location, "location", "", "City or state")
	return cmd
}

func ngosCmd() *cobra.Command {
	var query, category, location string
	cmd := &cobra.Command{
		Use:   "ngos",
		Short: "Find NGOs and legal aid organisations",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := legal.LoadTables()
			if err != nil {
				return err
			}
			finder := legal.NewNGOFinder(tables)
			if query == "" && location == "" {
				return printJSON(cmd.OutOrStdout(), finder.Find(category, ""))
			}
			return printJSON(cmd.OutOrStdout(), finder.Search(query, category, location))
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Legal category or directory category")
	cmd.Flags().StringVar(&query, "query", "", "Match NGO names or services")
	cmd.Flags().StringVar(&location, "location", "", "City or state")
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
