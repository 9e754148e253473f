package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"archreview-backend/internal/llm/bedrock"
	"archreview-backend/internal/reviews"
	"archreview-backend/internal/shared/config"
	"archreview-backend/internal/shared/storage/object/local"
	"archreview-backend/internal/shared/util"
)

func main() {
	cfg := config.Load()

	imagePath := flag.String("image", "", "Path to architecture diagram image (png, jpeg, gif or webp)")
	outDir := flag.String("out", "", "Directory to write export artifacts (optional)")
	region := flag.String("region", cfg.AWSRegion, "AWS region for Bedrock")
	model := flag.String("model", cfg.BedrockModelID, "Bedrock model ID")
	flag.Parse()

	if strings.TrimSpace(*imagePath) == "" {
		exitErr("image path is required")
	}

	imageBytes, err := os.ReadFile(*imagePath)
	if err != nil {
		exitErr(fmt.Sprintf("read image: %v", err))
	}

	ctx := context.Background()
	client, err := bedrock.NewClient(ctx, *region, *model)
	if err != nil {
		exitErr(fmt.Sprintf("bedrock client: %v", err))
	}

	svc := reviews.NewService(client, nil)

	res, err := svc.Analyze(ctx, imageBytes)
	if err != nil {
		exitErr(fmt.Sprintf("analyze: %v", err))
	}

	fmt.Println(res.Assessment.TextReport())

	if strings.TrimSpace(*outDir) != "" {
		if err := writeArtifacts(ctx, *outDir, *imagePath, res); err != nil {
			exitErr(err.Error())
		}
	}
}

// writeArtifacts saves the JSON and text exports under a directory named
// after the diagram file.
func writeArtifacts(ctx context.Context, outDir, imagePath string, res *reviews.Result) error {
	stem, err := util.SanitizeFileName(strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath)))
	if err != nil {
		return fmt.Errorf("derive artifact name: %v", err)
	}

	store := local.New(outDir)

	jsonBytes, err := res.Assessment.ExportJSON()
	if err != nil {
		return fmt.Errorf("export json: %v", err)
	}
	jsonKey := stem + "/assessment.json"
	if _, err := store.Save(ctx, jsonKey, "application/json", strings.NewReader(string(jsonBytes))); err != nil {
		return fmt.Errorf("write %s: %v", jsonKey, err)
	}

	txtKey := stem + "/report.txt"
	if _, err := store.Save(ctx, txtKey, "text/plain; charset=utf-8", strings.NewReader(res.Assessment.TextReport())); err != nil {
		return fmt.Errorf("write %s: %v", txtKey, err)
	}

	fmt.Printf("wrote %s and %s under %s\n", jsonKey, txtKey, outDir)
	return nil
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, "error:", msg)
	os.Exit(1)
}
