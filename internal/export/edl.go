package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/afterglow/glowcut/internal/editor"
)

// GenerateEDL renders a CMX3600-style edit decision list for the
// project. Video clips become V events, audio clips A events; record
// positions come straight from the timeline, source in points are
// always zero because every clip plays its media from the top.
func GenerateEDL(p editor.Project, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	title := SanitizeName(p.Name, 60)
	if title == "" {
		title = "Untitled"
	}

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	event := 0
	for _, clip := range videoEvents(p) {
		event++
		lines = append(lines, eventLines(event, "V", clip.name, clip.url, clip.start, clip.duration, fps)...)
	}

	audio := append([]editor.AudioClip(nil), p.AudioClips...)
	sort.SliceStable(audio, func(i, j int) bool { return audio[i].StartTime < audio[j].StartTime })
	for _, clip := range audio {
		event++
		lines = append(lines, eventLines(event, "A", clip.Name, clip.URL, clip.StartTime, clip.Duration, fps)...)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// EventCount returns the number of events GenerateEDL will emit for p.
func EventCount(p editor.Project) int {
	return len(videoEvents(p)) + len(p.AudioClips)
}

type timelineEvent struct {
	name     string
	url      string
	start    float64
	duration float64
}

// videoEvents flattens the video track. A project with a bare primary
// video and no placed video clips still exports a single V event.
func videoEvents(p editor.Project) []timelineEvent {
	if len(p.VideoClips) == 0 {
		if p.VideoURL == "" || p.VideoDuration <= 0 {
			return nil
		}
		name := p.Name
		if name == "" {
			name = "Primary Video"
		}
		return []timelineEvent{{name: name, url: p.VideoURL, duration: p.VideoDuration}}
	}

	events := make([]timelineEvent, 0, len(p.VideoClips))
	for _, c := range p.VideoClips {
		events = append(events, timelineEvent{name: c.Name, url: c.URL, start: c.StartTime, duration: c.Duration})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].start < events[j].start })
	return events
}

func eventLines(event int, track, name, url string, start, duration float64, fps int) []string {
	srcIn := secondsToTimecode(0, fps)
	srcOut := secondsToTimecode(duration, fps)
	recIn := secondsToTimecode(start, fps)
	recOut := secondsToTimecode(start+duration, fps)

	if name == "" {
		name = "Clip"
	}
	return []string{
		fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", event, "AX", track, srcIn, srcOut, recIn, recOut),
		fmt.Sprintf("* FROM CLIP NAME:  %s", name),
		fmt.Sprintf("* MEDIA PATH:  %s", url),
	}
}

func secondsToTimecode(sec float64, fps int) string {
	totalFrames := int(math.Round(sec * float64(fps)))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
