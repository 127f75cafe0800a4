package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	attemptTimeout = 15 * time.Second
	retryDelay     = 500 * time.Millisecond
)

// Chain tries an ordered list of provider handles, waiting a fixed delay
// between failed attempts. Fallback is explicitly sequential so only one
// provider is billed per failure. Ask never fails: on exhaustion (or an empty
// chain) it returns a deterministic canned answer with UsedFallback set.
type Chain struct {
	providers []Provider
	delay     time.Duration
	sleep     func(time.Duration)
	log       *zap.Logger
}

// NewChain builds a chain over the given handles in order.
func NewChain(providers []Provider, log *zap.Logger) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chain{
		providers: providers,
		delay:     retryDelay,
		sleep:     time.Sleep,
		log:       log,
	}
}

// WithSleep overrides the inter-attempt wait; tests inject a no-op.
func (c *Chain) WithSleep(sleep func(time.Duration)) *Chain {
	c.sleep = sleep
	return c
}

// Ask walks the chain and returns the first successful answer, or the canned
// subject-classified fallback when every attempt fails.
func (c *Chain) Ask(ctx context.Context, req Request) Result {
	for i, p := range c.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		answer, err := p.Complete(attemptCtx, req)
		cancel()
		if err == nil {
			return Result{Answer: answer, ProviderUsed: p.Name()}
		}
		c.log.Warn("tutor provider attempt failed",
			zap.String("provider", p.Name()),
			zap.Int("attempt", i+1),
			zap.Error(err))
		if i < len(c.providers)-1 {
			c.sleep(c.delay)
		}
	}

	used := "fallback"
	if len(c.providers) == 0 {
		used = "fallback-no-api-key"
	}
	return Result{
		Answer:       FallbackAnswer(req.Question, req.StudentName, req.GradeLevel),
		UsedFallback: true,
		ProviderUsed: used,
	}
}

type subjectCategory struct {
	name     string
	keywords []string
	template string
}

// Categories are checked in fixed order; the first whose keyword set matches
// the question (case-insensitive substring) wins.
var subjectCategories = []subjectCategory{
	{
		name:     "math",
		keywords: []string{"math", "calculate", "algebra", "equation"},
		template: "Hey %[1]s! Your math question is like discovering a secret level in your favorite game - it seems tricky at first but becomes super satisfying once you crack it! Normally I'd break it down with examples from pizza slices to video game scores. Let me reboot my brain and we'll tackle this together in a moment! 🎮➗",
	},
	{
		name:     "science",
		keywords: []string{"science", "physics", "chemistry", "biology", "experiment"},
		template: "Whoa %[1]s, that's an awesome science question! It reminds me of those moments in superhero movies where they explain the cool science behind powers. I'd usually dive into experiments and real-world magic, but my lab coat is at the cleaners right now! Let me fix this quickly and we'll explore together! 🔬✨",
	},
	{
		name:     "english",
		keywords: []string{"english", "grammar", "literature", "write", "story"},
		template: "%[1]s, your English question is like finding the perfect plot twist in a great story! I'd normally unpack this with references from trending shows and songs that make grammar actually cool. My dictionary is doing updates, but I'll be back in a flash to make words come alive! 📚🎭",
	},
	{
		name:     "history",
		keywords: []string{"history", "past", "ancient", "war", "king"},
		template: "Time travel alert! %[1]s, your history question is like uncovering ancient secrets. I'd usually take us on an adventure through time with stories that connect to our world today. My time machine needs a quick charge, but we'll be exploring past wonders together soon! ⏳🏰",
	},
}

const generalTemplate = "Hey %[1]s! That question is fire! 🔥 As a %[2]s student, you're asking the kind of questions that lead to epic discoveries. I'd normally break it down with stories, jokes, and real-life connections that make learning feel like an adventure. My brain is doing a quick system update - back in a moment to continue our learning journey! 🚀🌟"

// FallbackAnswer returns the canned, subject-classified answer for a question.
func FallbackAnswer(question, studentName, gradeLevel string) string {
	lower := strings.ToLower(question)
	for _, cat := range subjectCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return fmt.Sprintf(cat.template, studentName)
			}
		}
	}
	return fmt.Sprintf(generalTemplate, studentName, gradeLevel)
}
