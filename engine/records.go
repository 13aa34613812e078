package engine

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vitwit/w3resolve/clients"
)

// ResolveEmails collects the email-like records of domain from its home name
// service: the "email" record, then email.1 to email.5 until the first miss,
// then every known key mentioning "email" or "mail". Values are deduplicated
// by exact string, keeping the first occurrence.
func (e *Engine) ResolveEmails(ctx context.Context, domain string) []string {
	domain = strings.TrimSpace(domain)
	ctx, span := e.tracer.Start(ctx, "engine.resolve_emails", trace.WithAttributes(
		attribute.String("domain", domain),
	))
	defer span.End()

	emails := []string{}
	home, homeChain := e.homeNameService(domain)
	if home == nil {
		return emails
	}

	if v, err := e.readText(ctx, home, domain, "email"); err == nil && v != "" {
		emails = append(emails, v)
	}

	for i := 1; i <= maxIndexedEmails; i++ {
		v, err := e.readText(ctx, home, domain, fmt.Sprintf("email.%d", i))
		if err != nil || v == "" {
			break
		}
		emails = append(emails, v)
	}

	records := e.textRecords(ctx, home, domain)
	for _, key := range e.registry.AllRecordKeys() {
		if !isMailKey(key) {
			continue
		}
		if v, ok := records[key]; ok {
			emails = append(emails, v)
		}
	}

	emails = dedupe(emails)
	e.logger.Debug("resolved email records", map[string]any{
		"domain": domain, "home": homeChain, "count": len(emails),
	})
	return emails
}

// TextRecords reads every known record key of domain concurrently and returns
// the non-empty values.
func (e *Engine) TextRecords(ctx context.Context, domain string) map[string]string {
	domain = strings.TrimSpace(domain)
	home, _ := e.homeNameService(domain)
	if home == nil {
		return map[string]string{}
	}
	return e.textRecords(ctx, home, domain)
}

func (e *Engine) textRecords(ctx context.Context, ns clients.NameService, domain string) map[string]string {
	keys := e.registry.AllRecordKeys()

	type record struct {
		key   string
		value string
		err   error
	}
	results := make(chan record, len(keys))

	for _, key := range keys {
		go func(key string) {
			v, err := e.readText(ctx, ns, domain, key)
			results <- record{key: key, value: v, err: err}
		}(key)
	}

	records := make(map[string]string, len(keys))
	for range keys {
		r := <-results
		if r.err != nil || r.value == "" {
			continue
		}
		records[r.key] = r.value
	}
	return records
}

// isMailKey matches "mail" and therefore every "email" key as well.
func isMailKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "mail")
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
