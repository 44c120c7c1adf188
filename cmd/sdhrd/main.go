package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"sdhr-core/internal/assets"
	"sdhr-core/internal/core"
	"sdhr-core/internal/debug"
	"sdhr-core/internal/display"
	"sdhr-core/internal/server"
)

func main() {
	listen := flag.String("listen", ":8080", "TCP address to accept the host connection on")
	logComponents := flag.String("log", "", "Comma-separated components to log (demux,memory,upload,interpreter,compositor,display,server,system; empty disables logging)")
	displayKind := flag.String("display", "headless", "Display backend: sdl or headless")
	assetFormat := flag.String("asset-format", "png", "Image container format DEFINE_IMAGE_ASSET expects: png or bmp")
	flag.Parse()

	decoder, err := newDecoder(*assetFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := debug.NewLogger(10000)
	for _, name := range strings.Split(*logComponents, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		for _, c := range debug.AllComponents {
			if strings.EqualFold(string(c), name) {
				logger.SetComponentEnabled(c, true)
			}
		}
	}

	backend, err := newBackend(*displayKind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	srv, err := server.New(*listen, func() *core.Core {
		return core.New(decoder, backend, logger)
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("sdhrd listening on %s (display=%s)\n", srv.Addr(), *displayKind)
	if err := srv.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "Server stopped: %v\n", err)
		os.Exit(1)
	}
}

// newDecoder picks the Decoder matching the image container format the
// host is configured to send via DEFINE_IMAGE_ASSET. The protocol
// doesn't carry a format byte of its own, so the whole session is
// fixed to one container up front.
func newDecoder(format string) (assets.Decoder, error) {
	switch format {
	case "png":
		return assets.PNGDecoder{}, nil
	case "bmp":
		return assets.BMPDecoder{}, nil
	default:
		return nil, fmt.Errorf("unknown asset format %q (want png or bmp)", format)
	}
}

func newBackend(kind string) (display.Backend, error) {
	switch kind {
	case "sdl":
		return display.NewSDLBackend("sdhrd")
	case "headless":
		return display.NewHeadlessBackend(), nil
	default:
		return nil, fmt.Errorf("unknown display backend %q (want sdl or headless)", kind)
	}
}
