package scorer

import (
	"github.com/replyforge/replyforge/internal/reply"
	"github.com/replyforge/replyforge/internal/style"
)

// Situational tags entities may declare, matched against derived context
// features. The taxonomy-to-tag mapping below is tunable policy.
const (
	TagGoodForReplies     = "good-for-replies"
	TagGoodForLongThreads = "good-for-long-threads"
	TagGoodForQuestions   = "good-for-questions"
	TagGoodForTech        = "good-for-tech"
	TagGoodForNews        = "good-for-news"
	TagGoodForDebates     = "good-for-debates"
	TagGoodForHumor       = "good-for-humor"
)

// categoryTags maps a keyword category to the entity tag it rewards.
var categoryTags = map[string]string{
	"question": TagGoodForQuestions,
	"tech":     TagGoodForTech,
	"news":     TagGoodForNews,
	"debate":   TagGoodForDebates,
	"humor":    TagGoodForHumor,
}

// tagReasons maps a matched tag to its human-readable reason string.
var tagReasons = map[string]string{
	TagGoodForReplies:     "suits direct replies",
	TagGoodForLongThreads: "suits long threads",
	TagGoodForQuestions:   "matches the question being asked",
	TagGoodForTech:        "matches the tech topic",
	TagGoodForNews:        "matches the news topic",
	TagGoodForDebates:     "matches the debate going on",
	TagGoodForHumor:       "matches the joking tone",
}

// contextMatch computes the weighted overlap between the candidate's declared
// tags and the tags the current context calls for. With nothing to match the
// score degrades to the neutral 0.5, never to 0, so tag-sparse entities are
// not punished for the context being quiet.
func (s *Scorer) contextMatch(entities []style.Entity, f reply.Features) (float64, []string) {
	wanted := make([]string, 0, 2+len(f.Categories))
	if f.IsReply {
		wanted = append(wanted, TagGoodForReplies)
	}
	if f.ThreadLen >= s.cfg.LongThreadLen {
		wanted = append(wanted, TagGoodForLongThreads)
	}
	for _, cat := range f.Categories {
		if tag, ok := categoryTags[cat]; ok {
			wanted = append(wanted, tag)
		}
	}
	if len(wanted) == 0 {
		return neutralContext, nil
	}

	have := make(map[string]bool)
	for _, e := range entities {
		for _, t := range e.Tags {
			have[t] = true
		}
	}

	matched := 0
	var reasons []string
	for _, tag := range wanted {
		if !have[tag] {
			continue
		}
		matched++
		if r, ok := tagReasons[tag]; ok {
			reasons = append(reasons, r)
		}
	}
	if matched == 0 {
		return neutralContext, nil
	}

	score := neutralContext + (1-neutralContext)*float64(matched)/float64(len(wanted))
	return clamp(score, 0, 1), reasons
}

// Register fit values for the time-of-day score. The table is a total
// function over all 24 hours: every register maps to exactly one value inside
// the working-hours window and one outside it.
const (
	timeFitHigh = 0.85
	timeFitLow  = 0.35
)

// timeScore rewards candidates whose registers fit the hour: professional
// registers inside the [WorkStartHour, WorkEndHour) window, casual ones
// outside it. Neutral registers score the neutral baseline, and the candidate
// score is the mean over its non-empty slots.
func (s *Scorer) timeScore(entities []style.Entity, hour int) (float64, string) {
	working := hour >= s.cfg.WorkStartHour && hour < s.cfg.WorkEndHour

	var sum float64
	for _, e := range entities {
		switch e.Register {
		case style.RegisterProfessional:
			if working {
				sum += timeFitHigh
			} else {
				sum += timeFitLow
			}
		case style.RegisterCasual:
			if working {
				sum += timeFitLow
			} else {
				sum += timeFitHigh
			}
		default:
			sum += neutralTime
		}
	}
	score := sum / float64(len(entities))

	reason := ""
	if score > neutralTime+reasonEpsilon {
		if working {
			reason = "fits working hours"
		} else {
			reason = "fits the after-hours tone"
		}
	}
	return clamp(score, 0, 1), reason
}
