package main

import (
	"fmt"
	"log"
	"os"

	"github.com/chartwright/flowgraph"
	"github.com/chartwright/flowgraph/internal/config"
	"github.com/chartwright/flowgraph/internal/server"
)

func main() {
	configPath := ""

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("flowgraph-mcp %s\n", flowgraph.Version)
			return
		case "--help", "-h", "help":
			fmt.Println("flowgraph-mcp - MCP server for flowchart reconstruction")
			fmt.Println()
			fmt.Println("Usage: flowgraph-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --config <path>  Load configuration from a file")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  FLOWGRAPH_*      Override configuration keys, e.g.")
			fmt.Println("                   FLOWGRAPH_PIPELINE_MIN_CONFIDENCE=0.4")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		case "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s\n", args[i])
			os.Exit(2)
		}
	}

	// Logging goes to stderr; stdout carries the MCP protocol.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}
	for _, warning := range cfg.Validate() {
		log.Printf("config: %s", warning)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
