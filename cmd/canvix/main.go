package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gioui.org/app"
	"github.com/canvix/canvix"
	"github.com/canvix/canvix/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌─┐┌─┐┌┐┌┬  ┬┬─┐ ┬
│  ├─┤│││└┐┌┘│┌┴┬┘
└─┘┴ ┴┘└┘ └┘ ┴┴ └─

Layered canvas compositing tool.
    Version: %s

Usage: canvix [flags] source[@x,y]...
`

// pipeName is the file name that indicates stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	size        = flag.String("size", "1024x768", "Canvas size, width x height")
	background  = flag.String("bg", "#ffffff", "Canvas background color")
	destination = flag.String("out", pipeName, "Destination")
	filter      = flag.String("filter", "", "Layer filter (grayscale|blur|sharpen|invert)")
	sigma       = flag.Float64("sigma", 2.0, "Blur and sharpen filter sigma")
	opacity     = flag.Float64("opacity", 1.0, "Layer opacity")
	blend       = flag.String("blend", "", "Layer blend mode (darken|lighten|multiply|screen|overlay)")
	fit         = flag.Bool("fit", false, "Scale the layers down to fit the canvas")
	dataURL     = flag.Bool("dataurl", false, "Emit the canvas as a base64 data URL")
	preview     = flag.Bool("preview", false, "Show the composed canvas in a GUI window")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of layer sources to load concurrently")

	// spinner used to instantiate and call the progress indicator.
	spinner *utils.Spinner
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide at least one layer source!", utils.ErrorMessage))
	}

	width, height, err := parseSize(*size)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	bgColor, err := canvix.ParseHexColor(*background)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	canvas, err := canvix.NewCanvas(width, height, canvix.WithBackground(bgColor))
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ CANVIX", utils.StatusMessage),
		utils.DecorateText("is composing the canvas...", utils.DefaultMessage))
	spinner = utils.NewSpinner(spinnerText, time.Millisecond*200, true)

	// Capture CTRL-C and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	now := time.Now()
	spinner.Start()

	err = compose(canvas, flag.Args())

	spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ CANVIX", utils.StatusMessage),
		utils.DecorateText("is composing the canvas... ✔", utils.DefaultMessage))
	spinner.Stop()

	if err == nil {
		err = output(canvas, *destination)
	}
	printStatus(*destination, err)

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))

	if *preview {
		go func() {
			if err := canvix.NewPreview(canvas).Show(); err != nil {
				log.Printf(utils.DecorateText("Preview error: %v", utils.ErrorMessage), err)
			}
			os.Exit(0)
		}()
		app.Main()
	}
}

// compose loads the layer sources concurrently and applies the
// layer options provided through the command line flags.
func compose(canvas *canvix.Canvas, args []string) error {
	srcs := make([]string, 0, len(args))
	// The same source can appear multiple times with different offsets,
	// so each occurrence queues its own position.
	offsets := make(map[string][]image.Point, len(args))

	for _, arg := range args {
		src, offset, err := parseSource(arg)
		if err != nil {
			return err
		}
		srcs = append(srcs, src)
		offsets[src] = append(offsets[src], offset)
	}

	layers, err := canvas.AddImageLayers(context.Background(), *workers, srcs...)
	if err != nil {
		return err
	}

	for _, l := range layers {
		if queue := offsets[l.Source()]; len(queue) > 0 {
			l.SetOffset(queue[0])
			offsets[l.Source()] = queue[1:]
		}
		l.SetOpacity(*opacity)

		if *filter != "" {
			if err := l.SetFilter(*filter, *sigma); err != nil {
				return err
			}
		}
		if *blend != "" {
			if err := l.SetBlendMode(*blend); err != nil {
				return err
			}
		}
		if *fit {
			l.FitTo(canvas.Width(), canvas.Height())
		}
	}
	return nil
}

// output writes the composed canvas to the destination file or to stdout.
func output(canvas *canvix.Canvas, out string) error {
	var (
		dst io.Writer
		ext string
	)

	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		ext = filepath.Ext(out)
		file, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("unable to create the destination file: %w", err)
		}
		defer file.Close()
		dst = file
	}

	if *dataURL {
		url, err := canvas.DataURL()
		if err != nil {
			return err
		}
		_, err = io.WriteString(dst, url)
		return err
	}
	return canvix.Encode(dst, canvas.Flatten(), ext)
}

// parseSize parses a "WIDTHxHEIGHT" string into canvas dimensions.
func parseSize(s string) (int, int, error) {
	w, h, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		return 0, 0, fmt.Errorf("invalid canvas size: %q", s)
	}

	width, errw := strconv.Atoi(strings.TrimSpace(w))
	height, errh := strconv.Atoi(strings.TrimSpace(h))
	if errw != nil || errh != nil {
		return 0, 0, fmt.Errorf("invalid canvas size: %q", s)
	}
	return width, height, nil
}

// parseSource splits a "source@x,y" argument into the source locator
// and the layer offset. The offset part is optional.
func parseSource(arg string) (string, image.Point, error) {
	src, pos, found := strings.Cut(arg, "@")
	if !found {
		return arg, image.Point{}, nil
	}

	x, y, found := strings.Cut(pos, ",")
	if !found {
		return "", image.Point{}, fmt.Errorf("invalid layer position: %q", arg)
	}

	px, errx := strconv.Atoi(strings.TrimSpace(x))
	py, erry := strconv.Atoi(strings.TrimSpace(y))
	if errx != nil || erry != nil {
		return "", image.Point{}, fmt.Errorf("invalid layer position: %q", arg)
	}
	return src, image.Pt(px, py), nil
}

// printStatus displays the relevant information about the composition process.
func printStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr,
			utils.DecorateText("\nError composing the canvas: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
		os.Exit(1)
	}
	if fname != pipeName {
		var size string
		if fi, err := os.Stat(fname); err == nil {
			size = " (" + utils.FormatBytes(int(fi.Size())) + ")"
		}
		fmt.Fprintf(os.Stderr, "\nThe composed canvas has been saved as: %s%s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			size, utils.DefaultColor,
		)
	}
}
