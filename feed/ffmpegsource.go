package feed

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"hacktv/frame"
)

// FFmpegSource is a MediaSource backed by an ffmpeg subprocess capturing a
// video device, decoded to raw RGB24 frames on stdout. Adapted from the
// teacher's source/capture.go StartFFmpegCapture: the same device-selection
// switch and filter graph, but producing frame.Buffer values through the
// MediaSource boundary instead of writing into a package-level
// mutex-guarded video.Standard raw buffer.
type FFmpegSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	width  int
	height int
	raw    []byte

	mu      sync.Mutex
	eof     bool
	pts     int64
	ptsStep int64
}

// OpenFFmpegSource starts ffmpeg capturing device on this OS's native video
// API, scaled to width×height at the given frame rate fraction (e.g.
// "25" or "30000/1001"), optionally drawing a callsign caption bar —
// exactly the filter graph source/capture.go built, now parameterised
// instead of reading a *config.Config directly.
func OpenFFmpegSource(device string, width, height int, fpsFraction, callsign string, ptsStep int64) (*FFmpegSource, error) {
	var args []string
	switch runtime.GOOS {
	case "linux":
		if device == "" {
			device = "/dev/video0"
		}
		args = []string{"-f", "v4l2", "-i", device}
	case "darwin":
		if device == "" {
			device = "0"
		}
		args = []string{"-f", "avfoundation", "-i", device}
	case "windows":
		if device == "" {
			device = "Integrated Webcam"
		}
		args = []string{"-f", "dshow", "-i", "video=" + device}
	default:
		return nil, fmt.Errorf("feed: unsupported OS for ffmpeg capture: %s", runtime.GOOS)
	}

	var vf string
	if callsign != "" {
		vf = fmt.Sprintf("scale=%d:%d,fps=%s,drawbox=x=0:y=ih-40:w=iw:h=40:color=black@0.6:t=fill,"+
			"drawtext=fontfile=/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf:text='%s':x=10:y=h-35:"+
			"fontcolor=white:fontsize=32:borderw=2:bordercolor=black", width, height, fpsFraction, callsign)
	} else {
		vf = fmt.Sprintf("scale=%d:%d,fps=%s", width, height, fpsFraction)
	}

	args = append(args,
		"-hide_banner", "-loglevel", "error",
		"-fflags", "nobuffer", "-flags", "low_delay",
		"-probesize", "32", "-analyzeduration", "0",
		"-threads", "1", "-f", "rawvideo",
		"-pix_fmt", "rgb24", "-vf", vf, "-",
	)

	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("feed: ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("feed: starting ffmpeg: %w", err)
	}

	return &FFmpegSource{
		cmd: cmd, stdout: stdout,
		width: width, height: height,
		raw:     make([]byte, width*height*3),
		ptsStep: ptsStep,
	}, nil
}

// ReadVideo reads one raw RGB24 frame from ffmpeg's stdout and converts it
// into a frame.Buffer.
func (s *FFmpegSource) ReadVideo() (*frame.Buffer, error) {
	if _, err := io.ReadFull(s.stdout, s.raw); err != nil {
		s.mu.Lock()
		s.eof = true
		s.mu.Unlock()
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("feed: reading ffmpeg frame: %w", err)
	}

	buf := frame.NewBuffer(s.width, s.height)
	for i := range buf.Pix {
		buf.Pix[i] = frame.RGB{R: s.raw[i*3], G: s.raw[i*3+1], B: s.raw[i*3+2]}
	}
	s.mu.Lock()
	buf.PTS = s.pts
	s.pts += s.ptsStep
	s.mu.Unlock()
	return buf, nil
}

// ReadAudio is not wired to ffmpeg's audio stream in this capture profile
// (video-only device capture, as the teacher's capture.go was); it returns
// n silent stereo samples so downstream A/V timing stays well-formed.
func (s *FFmpegSource) ReadAudio(n int) ([]int16, error) {
	return make([]int16, n*2), nil
}

func (s *FFmpegSource) EOF() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eof
}

// Close terminates the ffmpeg subprocess.
func (s *FFmpegSource) Close() {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
}
