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
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/quartzlane/groupgate/pkg/config"
	"github.com/quartzlane/groupgate/pkg/directory"
	"github.com/quartzlane/groupgate/pkg/logger"
	"github.com/quartzlane/groupgate/pkg/sync"
)

func main() {
	configPath := flag.String("config", "/etc/groupgate/groupgate.json", "Path to config file")
	once := flag.Bool("once", false, "Run a single reconciliation pass and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg sync.Config

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

	svc, err := sync.New(&cfg, dir, nil, lg)
	if err != nil {
		log.Fatalf("Failed to create sync service: %v", err)
	}

	if *once {
		if err := svc.Sync(ctx); err != nil {
			lg.Fatal().Err(err).Msg("Reconciliation pass failed")
		}

		return
	}

	if err := svc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal().Err(err).Msg("Sync service failed")
	}
}
