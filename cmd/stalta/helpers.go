package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	stalta "github.com/tphakala/go-stalta"
	"github.com/tphakala/go-stalta/internal/simdops"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	info := &wavInputInfo{
		file:     inputFile,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: int(decoder.BitDepth),
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", info.rate, info.channels, info.bitDepth)
	}

	return info, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// traceBatch is a row-major batch with one row per WAV channel.
type traceBatch struct {
	data     []float64
	channels int
	frames   int
	rate     int
}

// readBatch decodes the whole file and deinterleaves it into a batch of
// normalised traces.
func (w *wavInputInfo) readBatch() (*traceBatch, error) {
	buf, err := w.decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode PCM data: %w", err)
	}
	if w.channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", w.channels)
	}

	frames := len(buf.Data) / w.channels
	if frames == 0 {
		return nil, fmt.Errorf("no audio frames in input")
	}

	data := make([]float64, frames*w.channels)
	deinterleaveInto(buf, data, w.channels, frames, 1.0/getMaxValue(w.bitDepth))

	return &traceBatch{
		data:     data,
		channels: w.channels,
		frames:   frames,
		rate:     w.rate,
	}, nil
}

// row returns channel ch of the batch.
func (b *traceBatch) row(ch int) []float64 {
	return b.data[ch*b.frames : (ch+1)*b.frames]
}

// deinterleaveInto converts interleaved int samples into row-major traces
// scaled by invMaxVal.
func deinterleaveInto(buf *audio.IntBuffer, dst []float64, numChannels, frames int, invMaxVal float64) {
	for ch := range numChannels {
		row := dst[ch*frames : (ch+1)*frames]
		for i := range frames {
			row[i] = float64(buf.Data[i*numChannels+ch])
		}
		simdops.Float64Ops().Scale(row, row, invMaxVal)
	}
}

// getMaxValue returns the full-scale value for a PCM bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// secondsToSamples converts a window duration to a sample count.
func secondsToSamples(seconds float64, rate int) (uint, error) {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("window duration must be positive, got %v", seconds)
	}
	n := math.Round(seconds * float64(rate))
	if n < 1 {
		return 0, fmt.Errorf("window of %vs is shorter than one sample at %d Hz", seconds, rate)
	}
	return uint(n), nil
}

// writeRatioCSV writes one line per frame: time in seconds followed by
// the ratio of every channel.
func writeRatioCSV(w io.Writer, ratios []float64, channels, frames, rate int) error {
	cw := csv.NewWriter(w)

	header := make([]string, channels+1)
	header[0] = "time"
	for ch := range channels {
		header[ch+1] = "ch" + strconv.Itoa(ch)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, channels+1)
	for i := range frames {
		record[0] = strconv.FormatFloat(float64(i)/float64(rate), 'f', timeDecimals, 64)
		for ch := range channels {
			record[ch+1] = strconv.FormatFloat(ratios[ch*frames+i], 'g', ratioDigits, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// reportChannel prints the summary and events of one channel.
func reportChannel(w io.Writer, ch int, ratio []float64, batch *traceBatch, opts *options) error {
	triggers, err := stalta.Triggers(ratio, opts.on, opts.off)
	if err != nil {
		return fmt.Errorf("channel %d: %w", ch, err)
	}

	summary := stalta.Summarize(ratio)
	rate := float64(batch.rate)
	fmt.Fprintf(w, "channel %d: rms=%.6f mean=%.3f peak=%.3f at %.3fs, %d event(s)\n",
		ch, simdops.RMS(batch.row(ch)), summary.Mean, summary.Peak,
		float64(summary.PeakIndex)/rate, len(triggers))

	for i, tr := range triggers {
		fmt.Fprintf(w, "  event %d: on=%.3fs off=%.3fs peak=%.3f at %.3fs\n",
			i, float64(tr.On)/rate, float64(tr.Off)/rate, tr.Peak, float64(tr.PeakIndex)/rate)
	}
	return nil
}
