// cmd/tools/feed-inspector/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
	pf "jobmatch-workers/internal/workers/feed/parse-feed"
	cms "jobmatch-workers/internal/workers/matching/calculate-match-score"
	"jobmatch-workers/pkg/taxonomy"
)

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "parse":
		return parseCommand(args, out)
	case "score":
		return scoreCommand(args, out)
	case "taxonomy":
		return taxonomyCommand(args, out)
	case "help":
		help()
		return nil
	default:
		help()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	file := fs.String("file", "", "Path to a feed XML document")
	asJSON := fs.Bool("json", false, "Print the mapped jobs as JSON")
	limit := fs.Int("limit", 10, "Number of jobs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}

	parsed, err := parseFile(*file)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	}

	fmt.Fprintf(out, "Dialect: %s\nJobs: %d\nDropped: %d\n\n", parsed.Dialect, len(parsed.Jobs), len(parsed.Failures))
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tTYPE\tREMOTE\tSKILLS")
	for i, job := range parsed.Jobs {
		if i >= *limit {
			break
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			job.ID, job.Title, job.Location, job.JobType, job.Remote, strings.Join(job.RequiredSkills, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for _, f := range parsed.Failures {
		fmt.Fprintf(out, "dropped #%d %s: %s\n", f.Index, f.Ref, f.Error)
	}
	return nil
}

func scoreCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	file := fs.String("file", "", "Path to a feed XML document")
	profilePath := fs.String("profile", "", "Path to a user profile JSON document")
	preset := fs.String("preset", cms.PresetRoleFirst, "Weight preset (role-first, balanced)")
	taxonomyPath := fs.String("taxonomy", "", "Optional taxonomy JSON document")
	top := fs.Int("top", 10, "Number of matches to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" || *profilePath == "" {
		fs.Usage()
		return fmt.Errorf("-file and -profile are required")
	}

	profile, err := loadProfile(*profilePath)
	if err != nil {
		return err
	}
	tax, err := loadTaxonomy(*taxonomyPath)
	if err != nil {
		return err
	}

	cfg := cms.LoadConfig()
	cfg.Preset = *preset
	scorer, err := cms.NewScorer(cfg, tax)
	if err != nil {
		return err
	}

	parsed, err := parseFile(*file)
	if err != nil {
		return err
	}

	scored := make([]models.ScoredJob, 0, len(parsed.Jobs))
	for i := range parsed.Jobs {
		m := scorer.Score(profile, &parsed.Jobs[i])
		scored = append(scored, models.ScoredJob{Job: parsed.Jobs[i], Match: &m})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Match.Score > scored[j].Match.Score
	})

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tID\tTITLE\tFACTORS")
	for i, s := range scored {
		if i >= *top {
			break
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Match.Score, s.ID, s.Title, strings.Join(s.Match.Factors, "; "))
	}
	return w.Flush()
}

func taxonomyCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("taxonomy", flag.ContinueOnError)
	path := fs.String("path", "", "Taxonomy JSON document to validate (built-in when empty)")
	expand := fs.String("expand", "", "Print the synonym expansion of a term")
	role := fs.String("role", "", "Print the category and subcategory a role title resolves to")
	dump := fs.Bool("dump", false, "Print the taxonomy as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tax, err := loadTaxonomy(*path)
	if err != nil {
		return err
	}

	switch {
	case *dump:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tax)
	case *expand != "":
		fmt.Fprintln(out, strings.Join(tax.ExpandTerm(*expand), "\n"))
	case *role != "":
		info, ok := tax.FindRole(*role)
		if !ok {
			return fmt.Errorf("no role found in %q", *role)
		}
		fmt.Fprintf(out, "%s > %s > %s\n", info.Category, info.Subcategory, info.Role)
	default:
		roles := 0
		for _, c := range tax.Categories {
			for _, s := range c.Subcategories {
				roles += len(s.Roles)
			}
		}
		fmt.Fprintf(out, "Taxonomy valid: %d categories, %d roles, %d synonym groups\n",
			len(tax.Categories), roles, len(tax.Synonyms))
	}
	return nil
}

func parseFile(path string) (*pf.Output, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h := pf.NewHandler(pf.LoadConfig(), logger.NewNoOpLogger())
	return h.Execute(context.Background(), &pf.Input{Payload: payload})
}

func loadProfile(path string) (*models.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return &profile, nil
}

func loadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.Load(path)
}

func help() {
	fmt.Println("Usage: feed-inspector <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  parse     Parse a feed file and list the mapped jobs")
	fmt.Println("  score     Score every job in a feed file against a profile")
	fmt.Println("  taxonomy  Validate a taxonomy file or query synonyms and roles")
	fmt.Println("  help      Show this help message")
}
