// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// Transcoder converts media originals into inference-friendly artifacts.
type Transcoder interface {
	// ExtractAudio pulls the audio track out of a video file as 64kbps
	// opus. The low bitrate is deliberate; the inference backend resamples
	// aggressively anyway.
	ExtractAudio(ctx context.Context, src, dst string) error

	// DownsampleVideo produces a silent mp4 holding one frame per source
	// second, scaled to 720p and played back at 30x.
	DownsampleVideo(ctx context.Context, src, dst string) error

	// ConvertAudio re-encodes a standalone audio file as 192kbps opus.
	ConvertAudio(ctx context.Context, src, dst string) error
}

// FFmpeg implements Transcoder by shelling out to the ffmpeg binary.
type FFmpeg struct {
	binary string
	logger *slog.Logger
}

var _ Transcoder = (*FFmpeg)(nil)

// FFmpegOption configures an FFmpeg transcoder.
type FFmpegOption func(*FFmpeg)

// WithFFmpegLogger sets the logger used for command tracing.
func WithFFmpegLogger(logger *slog.Logger) FFmpegOption {
	return func(f *FFmpeg) {
		f.logger = logger
	}
}

// NewFFmpeg creates a transcoder using the named binary ("ffmpeg" resolves
// via PATH). Fails up front if the binary cannot be found.
func NewFFmpeg(binary string, opts ...FFmpegOption) (*FFmpeg, error) {
	if binary == "" {
		binary = "ffmpeg"
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFFmpegNotFound, binary)
	}

	transcoder := &FFmpeg{
		binary: resolved,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(transcoder)
	}
	return transcoder, nil
}

// ExtractAudio implements Transcoder.
func (f *FFmpeg) ExtractAudio(ctx context.Context, src, dst string) error {
	return f.run(ctx, extractAudioArgs(src, dst))
}

// DownsampleVideo implements Transcoder.
func (f *FFmpeg) DownsampleVideo(ctx context.Context, src, dst string) error {
	return f.run(ctx, downsampleVideoArgs(src, dst))
}

// ConvertAudio implements Transcoder.
func (f *FFmpeg) ConvertAudio(ctx context.Context, src, dst string) error {
	return f.run(ctx, convertAudioArgs(src, dst))
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	f.logger.Debug("running ffmpeg", "args", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v: %s", ErrTranscodeFailed, err, lastLine(stderr.Bytes()))
	}
	return nil
}

func extractAudioArgs(src, dst string) []string {
	return []string{
		"-i", src,
		"-vn",
		"-c:a", "libopus",
		"-b:a", "64k",
		"-y",
		dst,
	}
}

func downsampleVideoArgs(src, dst string) []string {
	return []string{
		"-i", src,
		// 1 frame per input second, 720p, sped up 30x.
		"-vf", "fps=1,scale=-1:720,setpts=PTS/30",
		"-r", "30",
		"-an",
		"-y",
		dst,
	}
}

func convertAudioArgs(src, dst string) []string {
	return []string{
		"-i", src,
		"-c:a", "libopus",
		"-b:a", "192k",
		"-y",
		dst,
	}
}

// lastLine returns the final non-empty line of ffmpeg's stderr, which is
// where it puts the actual failure reason.
func lastLine(output []byte) string {
	lines := bytes.Split(bytes.TrimSpace(output), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) > 0 {
			return string(line)
		}
	}
	return "no ffmpeg output"
}
