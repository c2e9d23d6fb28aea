// Command generate-config writes an example config file with every default filled in.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/typoteka/internal/config"
)

const header = "# Typoteka configuration example\n" +
	"# Copy this file to config.yaml and customize as needed.\n" +
	"# S3 credentials are read from S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY (a .env file works).\n\n"

func main() {
	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	output, err := generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	if outputFile == "-" {
		fmt.Print(string(output))
		return
	}
	if err := os.WriteFile(outputFile, output, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, config.ErrWriteConfigContentFmt+"\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}

func generate() ([]byte, error) {
	yamlData, err := yaml.Marshal(config.Defaults())
	if err != nil {
		return nil, err
	}
	return append([]byte(header), yamlData...), nil
}
