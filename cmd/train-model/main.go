package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mikey/phish-detector/internal/adapters/dataset"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/factory"
	"github.com/mikey/phish-detector/internal/logging"
	"github.com/mikey/phish-detector/internal/model"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "", "Path to config file")
	importFile = flag.String("import", "", "CSV file of url,label rows to add to the dataset before training")
	output     = flag.String("output", "", "Where to write the model (defaults to model.path)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.NewFromFile(*configFile)
	} else {
		cfg, err = config.New()
	}
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := train(ctx, cfg, logger); err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}
}

func train(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	repo, err := factory.NewDatasetFactory(cfg, logger).CreateDatasetRepository(ctx)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer repo.Close()

	if *importFile != "" {
		file, err := os.Open(*importFile)
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		n, err := dataset.ImportCSV(ctx, file, repo)
		file.Close()
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", *importFile, err)
		}
		logger.Info("Imported training URLs", zap.String("file", *importFile), zap.Int("rows", n))
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count training URLs: %w", err)
	}
	if count == 0 {
		logger.Info("Dataset is empty, adding the starter samples", zap.Int("rows", len(dataset.SeedURLs)))
		for _, s := range dataset.SeedURLs {
			if err := repo.Add(ctx, s); err != nil {
				return fmt.Errorf("failed to seed dataset: %w", err)
			}
		}
	}

	samples, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list training URLs: %w", err)
	}

	trainingCfg := cfg.GetTraining()
	x, y := model.FeatureMatrix(samples)
	trainIdx, testIdx := model.SplitTrainTest(len(x), trainingCfg.TestFraction, trainingCfg.Seed)
	trainX, trainY := model.Subset(x, y, trainIdx)
	testX, testY := model.Subset(x, y, testIdx)

	start := time.Now()
	forest, err := model.Train(trainX, trainY, core.FeatureNames, model.TrainConfig{
		NumTrees:        trainingCfg.NumTrees,
		MaxDepth:        trainingCfg.MaxDepth,
		MinSamplesSplit: model.DefaultTrainConfig().MinSamplesSplit,
		Seed:            trainingCfg.Seed,
	})
	if err != nil {
		return fmt.Errorf("failed to train model: %w", err)
	}

	fields := []zap.Field{
		zap.Int("train_rows", len(trainX)),
		zap.Int("test_rows", len(testX)),
		zap.Int("trees", len(forest.Trees)),
		zap.Duration("duration", time.Since(start)),
		zap.Strings("features", forest.Features),
		zap.Float64("train_accuracy", model.Accuracy(forest, trainX, trainY)),
	}
	if len(testX) > 0 {
		fields = append(fields, zap.Float64("test_accuracy", model.Accuracy(forest, testX, testY)))
	}
	logger.Info("Model trained", fields...)

	path := *output
	if path == "" {
		path = cfg.GetModel().Path
	}
	if err := forest.Save(path); err != nil {
		return err
	}

	logger.Info("Model saved", zap.String("path", path))
	return nil
}
