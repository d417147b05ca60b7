// ezal-play plays a sound file through the default output device. It
// exercises both source kinds: a plain listener-relative playback and a
// positional one that can orbit the listener.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/skillissuedev/ez-al"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

const Version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ezal-play <file>",
		Short:   "Play a sound file with optional 3D positioning",
		Long:    "ezal-play decodes a WAV, MP3 or AIFF file and plays it through the default output device, either flat or spatialized around the listener.",
		Args:    cobra.ExactArgs(1),
		Version: Version,
		RunE:    runPlayE,
	}

	rootCmd.Flags().Float32("volume", 1.0, "Playback volume (0.0 to 1.0)")
	rootCmd.Flags().Bool("loop", false, "Loop playback until the duration elapses")
	rootCmd.Flags().Bool("positional", false, "Play as a positional source instead of a flat one")
	rootCmd.Flags().Bool("orbit", false, "Orbit the source around the listener (implies --positional)")
	rootCmd.Flags().Float32("max-distance", 0, "Attenuation distance cap for positional playback (0 leaves the default)")
	rootCmd.Flags().Duration("duration", 5*time.Second, "How long to keep playing")
	rootCmd.Flags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.Flags().String("log-file", "", "Also write logs to this file, with rotation")

	return rootCmd
}

func runPlayE(cmd *cobra.Command, args []string) error {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFile, _ := cmd.Flags().GetString("log-file")
	setupLogging(logLevel, logFile)

	volume, _ := cmd.Flags().GetFloat32("volume")
	loop, _ := cmd.Flags().GetBool("loop")
	positional, _ := cmd.Flags().GetBool("positional")
	orbit, _ := cmd.Flags().GetBool("orbit")
	maxDistance, _ := cmd.Flags().GetFloat32("max-distance")
	duration, _ := cmd.Flags().GetDuration("duration")

	if volume < 0 || volume > 1 {
		return fmt.Errorf("invalid volume %v: must be between 0.0 and 1.0", volume)
	}
	if orbit {
		positional = true
	}

	ctx, err := ezal.Open()
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	defer ctx.Close()

	asset, err := ctx.DecodeAsset(args[0])
	if err != nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}
	defer asset.Close()

	slog.Info("asset decoded",
		"path", args[0],
		"channels", asset.Channels(),
		"sample_rate", asset.SampleRate(),
		"frames", asset.Frames())

	kind := ezal.Simple
	if positional {
		kind = ezal.Positional
	}

	src, err := ctx.NewSource(asset, kind)
	if err != nil {
		return fmt.Errorf("create source: %w", err)
	}
	defer src.Close()

	src.SetVolume(volume)
	src.SetLooping(loop)
	if positional && maxDistance > 0 {
		if err := src.SetMaxDistance(maxDistance); err != nil {
			return fmt.Errorf("set max distance: %w", err)
		}
	}
	if positional && !orbit {
		// Fixed spot ahead and to the right of the listener.
		if err := src.Update(ezal.Vec3{2, 0, -2}); err != nil {
			return fmt.Errorf("position source: %w", err)
		}
	}

	src.Play()
	slog.Info("playback started", "kind", kind.String(), "loop", loop, "orbit", orbit)

	deadline := time.Now().Add(duration)
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	for now := range ticker.C {
		if now.After(deadline) {
			break
		}
		if !orbit {
			continue
		}
		// One full revolution every four seconds, three units out.
		angle := now.Sub(start).Seconds() * math.Pi / 2
		pos := ezal.Vec3{
			3 * float32(math.Cos(angle)),
			0,
			3 * float32(math.Sin(angle)),
		}
		if err := src.Update(pos); err != nil {
			return fmt.Errorf("move source: %w", err)
		}
	}

	src.Stop()
	slog.Info("playback finished", "elapsed", time.Since(start))
	return nil
}

// setupLogging configures the default slog logger. Logs always go to stderr;
// a log file adds a rotating writer alongside it.
func setupLogging(levelName, logFile string) {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	writers := []io.Writer{os.Stderr}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			slog.Error("failed to create log directory", "path", logFile, "error", err)
		} else {
			writers = append(writers, &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10,
				MaxBackups: 3,
				MaxAge:     30,
				Compress:   true,
			})
		}
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
