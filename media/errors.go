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

import "errors"

var (
	// ErrFFmpegNotFound indicates the ffmpeg binary is not on PATH.
	ErrFFmpegNotFound = errors.New("ffmpeg binary not found")

	// ErrTranscodeFailed indicates an ffmpeg run exited with an error.
	ErrTranscodeFailed = errors.New("transcode failed")

	// ErrSourceNotFound indicates the source file does not exist.
	ErrSourceNotFound = errors.New("source file not found")
)
