// Package ffmpeg drives the ffmpeg binary as the decode and encode capability
// behind the splitter.
//
// Decode converts any input ffmpeg understands into interleaved s16le PCM held
// in memory. Encode feeds a PCM buffer back through ffmpeg's stdin and writes
// a constant-bitrate MP3 file.
package ffmpeg
