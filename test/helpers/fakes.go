package helpers

import (
	"context"
	"errors"
	"sync"

	"transport_backend/internal/email"
)

// FakeMailer запоминает отправленные письма
type FakeMailer struct {
	mu   sync.Mutex
	Sent []*email.Email
	Err  error
}

func (f *FakeMailer) Send(ctx context.Context, msg *email.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, msg)
	return nil
}

func (f *FakeMailer) Validate() error { return nil }

func (f *FakeMailer) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

// SentTo возвращает письма на адрес
func (f *FakeMailer) SentTo(addr string) []*email.Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*email.Email
	for _, m := range f.Sent {
		for _, to := range m.To {
			if to == addr {
				out = append(out, m)
			}
		}
	}
	return out
}

// FakeSMS запоминает отправленные SMS
type FakeSMS struct {
	mu   sync.Mutex
	Sent map[string][]string
	Err  error
}

func (f *FakeSMS) Send(ctx context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if f.Sent == nil {
		f.Sent = make(map[string][]string)
	}
	f.Sent[to] = append(f.Sent[to], body)
	return nil
}

// RecordingPush запоминает пуши по бронированиям
type RecordingPush struct {
	mu      sync.Mutex
	Batches [][]string
	Err     error
}

func (p *RecordingPush) Send(ctx context.Context, userIDs []string, title, message string, payload map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Batches = append(p.Batches, append([]string(nil), userIDs...))
	return p.Err
}

var ErrFake = errors.New("fake failure")
