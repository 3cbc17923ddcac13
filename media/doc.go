// Package media handles the on-disk library layout and ffmpeg transcoding.
//
// Video and audio originals are transcoded before summarization so the
// inference backend receives small, well-supported formats: opus audio and
// a heavily downsampled mp4 frame track. Documents, images and plain text
// are copied into the library verbatim.
package media
