// Copyright (c) 2025, The craftgraph Authors.  All rights reserved.
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

package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/craftgraph/craftgraph/pkg/data"
	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/header"
	"github.com/craftgraph/craftgraph/pkg/stack"
	"github.com/craftgraph/craftgraph/pkg/version"
)

const (
	imcDir = "imc"

	// KeyRecipeAdd is the message key that registers a recipe.
	KeyRecipeAdd = "recipe-add"
)

// Message is an inter-mod communication message. Only messages keyed
// KeyRecipeAdd carry recipes; others are ignored.
type Message struct {
	Sender string   `json:"sender" yaml:"sender"`
	Key    string   `json:"key" yaml:"key"`
	Output string   `json:"output,omitempty" yaml:"output,omitempty"`
	Inputs []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`
}

// Entry converts a recipe-add message into an entry. Inputs are kept as
// sent.
func (m Message) Entry() (Entry, error) {
	if m.Key != KeyRecipeAdd {
		return Entry{}, fmt.Errorf("message key %q does not carry a recipe", m.Key)
	}
	out, err := stack.Parse(m.Output)
	if err != nil {
		return Entry{}, fmt.Errorf("output: %w", err)
	}
	if len(m.Inputs) == 0 {
		return Entry{}, fmt.Errorf("recipe for %s has no inputs", out)
	}
	inputs, err := stack.ParseList(m.Inputs)
	if err != nil {
		return Entry{}, fmt.Errorf("inputs: %w", err)
	}
	return Entry{Output: out, Inputs: inputs}, nil
}

// IMCDocument is the IMCMessages pack document.
type IMCDocument struct {
	header.Header `yaml:",inline"`

	Messages []Message `yaml:"messages"`
}

// IMCProvider collects recipes sent by other mods. Pack messages come from
// imc/*.yaml; runtime messages are queued with Send. It is safe for
// concurrent use.
type IMCProvider struct {
	data data.Provider
	game version.Version

	mu     sync.Mutex
	queued []Message
}

// NewIMCProvider returns an IMC provider over dp. dp may be nil, in which
// case only sent messages are reported.
func NewIMCProvider(dp data.Provider, game version.Version) *IMCProvider {
	return &IMCProvider{data: dp, game: game}
}

// Name returns "imc".
func (p *IMCProvider) Name() string {
	return ProviderIMC
}

// Send queues a message. Recipe-add messages are validated; messages with
// other keys are accepted and ignored. Messages sent after a registry has
// been built are not reflected in it.
func (p *IMCProvider) Send(msg Message) error {
	if msg.Key == KeyRecipeAdd {
		if _, err := msg.Entry(); err != nil {
			return cgerrors.WrapWithContext(cgerrors.ErrCodeMalformed,
				"invalid IMC recipe", err, map[string]any{"sender": msg.Sender})
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	msg.Inputs = slices.Clone(msg.Inputs)
	p.queued = append(p.queued, msg)
	return nil
}

// Pending returns the number of queued messages.
func (p *IMCProvider) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queued)
}

// Recipes returns pack recipes followed by queued recipes, in order.
func (p *IMCProvider) Recipes(ctx context.Context) ([]Entry, error) {
	var entries []Entry

	if p.data != nil {
		files, err := data.Files(p.data, imcDir)
		if err != nil {
			return nil, err
		}
		for _, name := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			var doc IMCDocument
			ok, err := data.Decode(p.data, name, header.KindIMCMessages, p.game, &doc)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			for i, msg := range doc.Messages {
				if msg.Key != KeyRecipeAdd {
					slog.Debug("ignoring IMC message", "sender", msg.Sender, "key", msg.Key, "path", name)
					continue
				}
				e, err := msg.Entry()
				if err != nil {
					return nil, cgerrors.WrapWithContext(cgerrors.ErrCodeMalformed,
						"invalid IMC recipe", err, map[string]any{"path": name, "index": i, "sender": msg.Sender})
				}
				entries = append(entries, e)
			}
		}
	}

	p.mu.Lock()
	queued := slices.Clone(p.queued)
	p.mu.Unlock()

	for _, msg := range queued {
		if msg.Key != KeyRecipeAdd {
			continue
		}
		// Validated by Send.
		e, err := msg.Entry()
		if err != nil {
			return nil, cgerrors.Wrap(cgerrors.ErrCodeInternal, "queued IMC recipe became invalid", err)
		}
		entries = append(entries, e)
	}

	slog.Debug("imc recipes loaded", "count", len(entries), "queued", len(queued))
	return entries, nil
}
