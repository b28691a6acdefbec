// Package main provides the terminal listener: the live stream and the
// published podcast episodes of a station, played through one shared player.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/onair/internal/api/onairv1"
	"github.com/osa030/onair/internal/app/playback"
	"github.com/osa030/onair/internal/domain/media"
	"github.com/osa030/onair/internal/infra/audio"
	"github.com/osa030/onair/internal/infra/logger"
	"github.com/osa030/onair/internal/ui/player"
)

var (
	app      = kingpin.New("onair-listen", "Listen to the station live stream and podcasts")
	server   = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	episodes = app.Flag("episodes", "Number of podcast episodes to list").Default("20").Int()
	volume   = app.Flag("volume", "Initial volume (0.0-1.0)").Default("0.8").Float64()
	verbose  = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile  = app.Flag("logfile", "Path to log file (the terminal is used by the player)").Default("onair-listen.log").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	level := "info"
	if *verbose {
		level = "debug"
	}
	closer, err := logger.Init(logger.Config{Output: "file", Level: level, File: *logfile})
	if err != nil {
		fmt.Printf("Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(); err != nil {
		zlog.Error().Msgf("listen: %v", err)
		fmt.Printf("Error: %v\n", err)
		closer.Close()
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := onairv1.NewSiteServiceClient(http.DefaultClient, *server)

	station, err := client.GetStation(ctx, &onairv1.GetStationRequest{})
	if err != nil {
		return errors.Wrap(err, "failed to fetch station")
	}
	podcasts, err := client.ListPodcasts(ctx, &onairv1.ListPodcastsRequest{
		PageRequest: onairv1.PageRequest{Page: 1, PageSize: *episodes},
	})
	if err != nil {
		return errors.Wrap(err, "failed to fetch podcasts")
	}

	liveTitle := station.Station.Name
	if station.OnAir != nil {
		liveTitle = station.OnAir.Title
	}
	live := media.Live(liveTitle, station.Station.StreamURL)

	items := make([]media.Item, 0, len(podcasts.Podcasts))
	for _, p := range podcasts.Podcasts {
		items = append(items, podcastItem(p))
	}
	zlog.Info().Msgf("listen: station=%s episodes=%d", station.Station.Name, len(items))

	output, err := audio.NewSpeakerOutput(audio.DefaultSampleRate)
	if err != nil {
		return err
	}
	handle := audio.NewHandle(output, audio.Config{})
	defer handle.Close()

	coordinator := playback.NewCoordinator(handle, playback.Config{})
	defer coordinator.Close()
	coordinator.SetVolume(*volume)

	model := player.New(coordinator, station.Station.Name, live, items)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return errors.Wrap(err, "player failed")
	}
	return nil
}

func podcastItem(p onairv1.Podcast) media.Item {
	return media.Item{
		Kind:          media.KindPodcast,
		Title:         p.Title,
		SourceURL:     p.AudioURL,
		ImageURL:      p.ImageURL,
		DurationLabel: p.DurationLabel,
		EpisodeNumber: p.EpisodeNumber,
		SeasonNumber:  p.SeasonNumber,
		PodcastID:     p.ID,
	}
}
