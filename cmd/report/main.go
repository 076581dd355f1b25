// Command report runs the pipeline end to end and writes the SQL and KPI
// deliverables to an output directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mobilitylab/taxi-insights/internal/config"
	"github.com/mobilitylab/taxi-insights/internal/database"
	"github.com/mobilitylab/taxi-insights/internal/pipeline"
	"github.com/mobilitylab/taxi-insights/internal/repository"
	"github.com/mobilitylab/taxi-insights/internal/service"
	"github.com/mobilitylab/taxi-insights/pkg/logger"
)

func main() {
	queriesPath := flag.String("queries", "./sql_queries.sql", "path to the SQL script file")
	outDir := flag.String("out", "./deliverables", "output directory")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	if err := run(cfg, *queriesPath, *outDir, log); err != nil {
		log.Fatal("report generation failed", zap.Error(err))
	}
	log.Info("all deliverables generated", zap.String("dir", *outDir))
}

func run(cfg *config.Config, queriesPath, outDir string, log *zap.Logger) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	dataPath := cfg.DataPath
	if _, err := os.Stat(dataPath); err != nil {
		if _, sampleErr := os.Stat(cfg.SamplePath); sampleErr == nil {
			log.Warn("full dataset not found, using sample", zap.String("sample", cfg.SamplePath))
			dataPath = cfg.SamplePath
		}
	}

	analyzer := pipeline.NewAnalyzer(dataPath, log)
	if _, err := analyzer.Load(cfg.MaxRows); err != nil {
		return err
	}
	analyzer.Clean()
	analyzer.DeriveFeatures()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := repository.NewTripRepository(database.GetDB(), log)
	if err := repo.Ingest(analyzer.Data()); err != nil {
		return err
	}

	if err := runSQLScript(repo, queriesPath, outDir, log); err != nil {
		return err
	}

	report := service.BuildKPIReport(analyzer.Data())
	kpiPath := filepath.Join(outDir, "kpi_report.txt")
	if err := os.WriteFile(kpiPath, []byte(report.Render()), 0o644); err != nil {
		return fmt.Errorf("failed to write KPI report: %w", err)
	}
	log.Info("KPI report saved", zap.String("path", kpiPath))

	return nil
}

// runSQLScript executes each semicolon-terminated statement of the script
// and records results and failures alike; one bad statement never aborts
// the run.
func runSQLScript(repo *repository.TripRepository, queriesPath, outDir string, log *zap.Logger) error {
	content, err := os.ReadFile(queriesPath)
	if err != nil {
		return fmt.Errorf("failed to read SQL script: %w", err)
	}

	queries := splitStatements(string(content))

	var out []string
	out = append(out, "SQL QUERY EXECUTION RESULTS")
	out = append(out, "===========================\n")

	for i, query := range queries {
		out = append(out, fmt.Sprintf("Query #%d:", i+1))
		out = append(out, query)
		out = append(out, strings.Repeat("-", 20))

		result, err := repo.RunQuery(query)
		if err != nil {
			out = append(out, fmt.Sprintf("Error executing query: %v", err))
			log.Warn("query failed", zap.Int("query", i+1), zap.Error(err))
		} else {
			out = append(out, renderResult(result.Columns, result.Rows))
			log.Info("executed query", zap.Int("query", i+1))
		}
		out = append(out, "\n"+strings.Repeat("=", 50)+"\n")
	}

	resultsPath := filepath.Join(outDir, "sql_results.txt")
	if err := os.WriteFile(resultsPath, []byte(strings.Join(out, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to write SQL results: %w", err)
	}
	log.Info("SQL results saved", zap.String("path", resultsPath))
	return nil
}

// splitStatements breaks a SQL script into semicolon-terminated statements,
// ignoring blank lines and -- comments.
func splitStatements(script string) []string {
	var queries []string
	var current []string

	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		current = append(current, line)
		if strings.HasSuffix(line, ";") {
			queries = append(queries, strings.Join(current, "\n"))
			current = nil
		}
	}
	return queries
}

func renderResult(columns []string, rows [][]interface{}) string {
	var b strings.Builder
	b.WriteString(strings.Join(columns, "\t"))
	b.WriteByte('\n')
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case nil:
				cells[i] = "NULL"
			case []byte:
				cells[i] = string(x)
			default:
				cells[i] = fmt.Sprintf("%v", x)
			}
		}
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}
