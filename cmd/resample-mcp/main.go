package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/ironsheep/resample-mcp/internal/imaging"
	"github.com/ironsheep/resample-mcp/internal/resample"
	"github.com/ironsheep/resample-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("resample-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("resample-mcp - MCP server for bilinear raster resampling")
			fmt.Println()
			fmt.Println("Usage: resample-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  RESAMPLE_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  RESAMPLE_MCP_WORKERS=N          Split renders into N row bands")
			fmt.Println("  RESAMPLE_MCP_PLANAR=1           Store decoded color images as planes")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("RESAMPLE_MCP_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Resample MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		resample.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := []server.Option{server.WithVersion(Version)}
	if v := os.Getenv("RESAMPLE_MCP_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Invalid RESAMPLE_MCP_WORKERS %q: %v", v, err)
		}
		opts = append(opts, server.WithWorkers(n))
	}
	if planar, _ := strconv.ParseBool(os.Getenv("RESAMPLE_MCP_PLANAR")); planar {
		opts = append(opts, server.WithCache(imaging.NewRasterCache(imaging.WithPlanarColor())))
	}

	srv := server.New(opts...)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
