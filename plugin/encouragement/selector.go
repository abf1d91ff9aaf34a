package encouragement

import (
	"math/rand/v2"
)

type defaultRandom struct{}

func (defaultRandom) IntN(n int) int {
	return rand.IntN(n)
}

// SelectMessage picks a message for contexts from corpus, skipping excluded ids.
// The pool is relaxed step by step until it is non-empty:
//
//  1. not excluded, and contexts empty, message generic, or tags intersecting
//  2. not excluded and generic
//  3. not excluded
//  4. the first corpus message
//
// corpus must not be empty.
func SelectMessage(corpus []Message, contexts []Context, excludeIDs []string, random RandomSource) Message {
	if random == nil {
		random = defaultRandom{}
	}
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	wanted := make(map[Context]bool, len(contexts))
	for _, c := range contexts {
		wanted[c] = true
	}

	filters := []func(Message) bool{
		func(m Message) bool {
			return len(wanted) == 0 || len(m.Context) == 0 || intersects(m.Context, wanted)
		},
		func(m Message) bool {
			return len(m.Context) == 0
		},
		func(Message) bool {
			return true
		},
	}

	for _, matches := range filters {
		pool := make([]Message, 0, len(corpus))
		for _, message := range corpus {
			if !excluded[message.ID] && matches(message) {
				pool = append(pool, message)
			}
		}
		if len(pool) > 0 {
			return pool[random.IntN(len(pool))]
		}
	}
	return corpus[0]
}

func intersects(tags []Context, wanted map[Context]bool) bool {
	for _, tag := range tags {
		if wanted[tag] {
			return true
		}
	}
	return false
}
