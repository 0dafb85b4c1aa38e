/*
 * Copyright 2026 Quartzlane Systems.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/quartzlane/groupgate/pkg/config"
	"github.com/quartzlane/groupgate/pkg/directory"
	"github.com/quartzlane/groupgate/pkg/logger"
	"github.com/quartzlane/groupgate/pkg/models"
	"github.com/quartzlane/groupgate/pkg/report"
)

type reportConfig struct {
	Directory  directory.Config `json:"directory"`
	ReportName string           `json:"report_name"`
	Columns    []string         `json:"columns,omitempty"`
	Output     string           `json:"output,omitempty"`
	MaxWait    models.Duration  `json:"max_wait,omitempty"`
	Logging    *logger.Config   `json:"logging,omitempty"`
}

func (c *reportConfig) Validate() error {
	if c.ReportName == "" {
		c.ReportName = "DeviceCompliance"
	}

	if c.Output == "" {
		c.Output = "compliance.csv"
	}

	return c.Directory.Validate()
}

func main() {
	configPath := flag.String("config", "/etc/groupgate/report.json", "Path to config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg reportConfig

	cfgLoader := config.NewConfig(nil)

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	dir, err := directory.NewClient(&cfg.Directory, lg)
	if err != nil {
		log.Fatalf("Failed to create directory client: %v", err)
	}

	fetcher := report.NewFetcher(dir, time.Duration(cfg.MaxWait), lg)

	rows, err := fetcher.Fetch(ctx, cfg.ReportName, cfg.Columns)
	if err != nil {
		lg.Fatal().Err(err).Msg("Report export failed")
	}

	if err := report.WriteCSV(cfg.Output, rows); err != nil {
		lg.Fatal().Err(err).Msg("Failed to save report")
	}

	lg.Info().Str("output", cfg.Output).Int("rows", len(rows)).Msg("Saved compliance report")
}
