// Command hoainfo prints the channel layout, virtual ring and decoding matrix
// of a planar ambisonic decoder.
//
// Usage:
//
//	hoainfo [flags]
//
// Examples:
//
//	hoainfo -order 3 -channels 8
//	hoainfo -mode irregular -azimuths 30,-30,0,110,-110 -pairs
//	hoainfo -order 2 -matrix
//	hoainfo -mode binaural -order 2 -rate 48000 -export ./responses
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-ambisonic/dsp/ambisonic"
	"github.com/cwbudde/algo-ambisonic/dsp/core"
	"github.com/cwbudde/algo-ambisonic/dsp/hrtf"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hoainfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	order := fs.Int("order", 1, "decomposition order")
	modeName := fs.String("mode", "regular", "decoding mode: regular, irregular or binaural")
	channels := fs.Int("channels", 0, "loudspeaker count for regular mode (0: 2*order+2)")
	azimuths := fs.String("azimuths", "", "comma separated loudspeaker azimuths in degrees for irregular mode")
	offset := fs.Float64("offset", 0, "layout rotation in degrees")
	matrix := fs.Bool("matrix", false, "print the decoding matrix (regular mode)")
	pairs := fs.Bool("pairs", false, "print the virtual pair of every loudspeaker (irregular mode)")
	rate := fs.Int("rate", 44100, "binaural sample rate")
	pinnaName := fs.String("pinna", "small", "binaural pinna profile: small or large")
	export := fs.String("export", "", "write the model responses of the binaural ring as WAV files below this directory")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hoainfo [flags]\n\n")
		fmt.Fprintf(stderr, "Prints the layout of a planar ambisonic decoder.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, err := ambisonic.ParseMode(*modeName)
	if err != nil {
		return err
	}
	pinna, err := hrtf.ParsePinna(*pinnaName)
	if err != nil {
		return err
	}

	opts := []ambisonic.Option{
		ambisonic.WithOffset(core.Radians(*offset)),
		ambisonic.WithPinna(pinna),
	}
	if mode == ambisonic.ModeBinaural {
		opts = append(opts, ambisonic.WithSampleRate(*rate))
	}
	if *azimuths != "" {
		az, err := parseDegrees(*azimuths)
		if err != nil {
			return err
		}
		opts = append(opts, ambisonic.WithAzimuths(az))
	}

	m, err := ambisonic.NewMulti(*order, opts...)
	if err != nil {
		return err
	}
	if err := m.SetDecodingMode(mode); err != nil {
		return err
	}
	if *channels > 0 && mode == ambisonic.ModeRegular {
		if err := m.SetNumberOfChannels(*channels); err != nil {
			return err
		}
	}

	if err := printSummary(stdout, m); err != nil {
		return err
	}
	if err := printLayout(stdout, m); err != nil {
		return err
	}
	if *matrix && mode == ambisonic.ModeRegular {
		if err := printMatrix(stdout, m.Regular()); err != nil {
			return err
		}
	}
	if *pairs && mode == ambisonic.ModeIrregular {
		if err := printPairs(stdout, m.Irregular()); err != nil {
			return err
		}
	}
	if *export != "" {
		return exportResponses(stdout, *export, *order, pinna, *rate)
	}
	return nil
}

func parseDegrees(list string) ([]float64, error) {
	fields := strings.Split(list, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("azimuth %d: %w", i+1, err)
		}
		out[i] = core.Radians(v)
	}
	return out, nil
}

func printSummary(w io.Writer, m *ambisonic.Multi) error {
	_, err := fmt.Fprintf(w, "mode %s, order %d, %d harmonics, %d channels, %d virtual, offset %.1f°\n\n",
		m.DecodingMode(), m.Order(), m.NumberOfHarmonics(), m.NumberOfChannels(),
		m.NumberOfVirtualChannels(), core.Degrees(m.ChannelsOffset()))
	return err
}

func printLayout(w io.Writer, m *ambisonic.Multi) error {
	if m.DecodingMode() == ambisonic.ModeBinaural {
		return printHeadphones(w, m)
	}

	// Level of each loudspeaker for a unit omnidirectional field.
	omni := make([]float64, m.NumberOfHarmonics())
	omni[0] = 1
	levels := make([]float64, m.NumberOfChannels())
	m.Process(omni, levels)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Channel\tAzimuth [deg]\tAbscissa\tOrdinate\tOmni [dB]\n")
	fmt.Fprintf(tw, "-------\t-------------\t--------\t--------\t---------\n")
	for i := range m.NumberOfChannels() {
		fmt.Fprintf(tw, "%s\t%.2f\t%.4f\t%.4f\t%.2f\n",
			m.ChannelName(i),
			core.Degrees(m.ChannelAzimuth(i)),
			m.ChannelAbscissa(i),
			m.ChannelOrdinate(i),
			core.LinearToDB(levels[i]),
		)
	}
	return tw.Flush()
}

func printHeadphones(w io.Writer, m *ambisonic.Multi) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Channel\tAzimuth [deg]\tAbscissa\tOrdinate\n")
	fmt.Fprintf(tw, "-------\t-------------\t--------\t--------\n")
	for i := range m.NumberOfChannels() {
		fmt.Fprintf(tw, "%s\t%.2f\t%.4f\t%.4f\n",
			m.ChannelName(i),
			core.Degrees(m.ChannelAzimuth(i)),
			m.ChannelAbscissa(i),
			m.ChannelOrdinate(i),
		)
	}
	return tw.Flush()
}

func printMatrix(w io.Writer, d *ambisonic.Regular) error {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t")
	for j := range d.NumberOfHarmonics() {
		fmt.Fprintf(tw, "%s\t", d.HarmonicName(j))
	}
	fmt.Fprintln(tw)
	for i, row := range d.Matrix() {
		fmt.Fprintf(tw, "%s\t", d.ChannelName(i))
		for _, v := range row {
			fmt.Fprintf(tw, "%.6f\t", v)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func printPairs(w io.Writer, d *ambisonic.Irregular) error {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Channel\tLow\tLow [deg]\tWeight\tHigh\tHigh [deg]\tWeight\n")
	fmt.Fprintf(tw, "-------\t---\t---------\t------\t----\t----------\t------\n")
	for i := range d.NumberOfChannels() {
		p := d.ChannelPair(i)
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.4f\t%d\t%.2f\t%.4f\n",
			d.ChannelName(i),
			p.Low, core.Degrees(d.VirtualAzimuth(p.Low)), p.LowWeight,
			p.High, core.Degrees(d.VirtualAzimuth(p.High)), p.HighWeight,
		)
	}
	return tw.Flush()
}

func exportResponses(w io.Writer, dir string, order int, pinna hrtf.Pinna, rate int) error {
	bank, err := hrtf.DefaultModel().Load(hrtf.Key{Order: order, Pinna: pinna, SampleRate: rate})
	if err != nil {
		return err
	}
	if err := hrtf.WriteWAVSet(dir, bank, 24); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\nwrote %d responses to %s\n", bank.Channels(),
		filepath.Join(dir, pinna.String(), strconv.Itoa(rate)))
	return err
}
