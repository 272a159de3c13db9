package ui

import (
	"fmt"
	"html/template"
	"io"
)

// テンプレート共通の関数。
var templateFuncs = template.FuncMap{
	"percent": func(v float64) int {
		return int(v * 100)
	},
}

// renderTemplate はレイアウトに画面コンテンツを埋め込んでレンダリングする。
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	layout, ok := templates["layout"]
	if !ok {
		return fmt.Errorf("layout template not found")
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}

	if _, err := tmpl.New("content").Parse(content); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	return tmpl.Execute(w, data)
}

// templates は全画面のテンプレートを保持する。
var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>BhashaSetu</title>
    <style>
        body { font-family: system-ui, sans-serif; margin: 0; background: #f8f7f4; color: #1f2933; }
        header { background: #1e3a8a; color: #fff; padding: 1rem 2rem; display: flex; justify-content: space-between; align-items: center; }
        header nav a { color: #c7d2fe; margin-left: 1rem; text-decoration: none; }
        main { max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
        .banner { background: #fef3c7; border: 1px solid #f59e0b; padding: 0.75rem 1rem; border-radius: 0.375rem; margin-bottom: 1.5rem; }
        .card { background: #fff; border-radius: 0.5rem; padding: 1.5rem; margin-bottom: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
        .stat { display: inline-block; margin-right: 2rem; }
        .stat b { display: block; font-size: 1.75rem; }
        button, .cta { background: #1e3a8a; color: #fff; border: none; padding: 0.6rem 1.2rem; border-radius: 0.375rem; cursor: pointer; text-decoration: none; display: inline-block; }
        select, textarea { width: 100%; padding: 0.5rem; margin: 0.5rem 0; border: 1px solid #cbd5e1; border-radius: 0.375rem; }
    </style>
</head>
<body>
    <header>
        <strong>BhashaSetu</strong>
        <nav>
            <a href="/learner">Learn</a>
            <a href="/translation">Translate</a>
            <a href="/voice">Voice</a>
            <a href="/admin">Admin</a>
            {{if .User}}
            <form method="post" action="/auth/logout" style="display:inline"><button type="submit">Sign out</button></form>
            {{else}}
            <a href="/auth/google/login">Sign in</a>
            {{end}}
        </nav>
    </header>
    <main>
    {{template "content" .}}
    </main>
</body>
</html>`,

	"landing": `{{if .ErrorBanner}}<div class="banner">{{.ErrorBanner}}</div>{{end}}
<div class="card">
    <h1>Skill training in your language</h1>
    <p>Translate course material, subtitles and speech across 22 Indian languages and English, with trade-specific glossaries and regional adaptation.</p>
    <a class="cta" href="/auth/google/login">Sign in with Google</a>
</div>`,

	"learner": `<div class="card">
    <h1>My courses</h1>
    {{if .User}}<p>Welcome back, {{.User.Name}}.</p>{{end}}
    <p>Electrician basics &middot; Plumbing level 1 &middot; Retail customer service</p>
</div>
<div class="card">
    <h2>Continue learning</h2>
    <p>Pick up where you left off, or translate new material from the Translate tab.</p>
</div>`,

	"admin": `<div class="card">
    <h1>Platform analytics</h1>
    <div class="stat"><b>{{.Metrics.TotalTranslations}}</b>translations</div>
    <div class="stat"><b>{{len .Metrics.LanguagesServed}}</b>languages served</div>
    <div class="stat"><b>{{percent .Metrics.AverageConfidence}}%</b>avg confidence</div>
    <div class="stat"><b>{{percent .Metrics.FeedbackPositiveRate}}%</b>positive feedback</div>
    <div class="stat"><b>{{.Metrics.TTSRequests}}</b>TTS requests</div>
    <div class="stat"><b>{{.Metrics.SubtitleTranslations}}</b>subtitles</div>
</div>`,

	"translation": `<div class="card">
    <h1>Translate</h1>
    <form id="translate-form">
        <textarea name="text" rows="5" placeholder="Enter text to translate"></textarea>
        <select name="target_language">
            {{range $code, $name := .Languages}}<option value="{{$code}}">{{$name}}</option>{{end}}
        </select>
        <button type="submit">Translate</button>
    </form>
</div>`,

	"voice": `<div class="card">
    <h1>Voice</h1>
    <p>Record speech, translate it and listen to the result.</p>
    <select name="voice">
        {{range .Voices}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
    <button type="button">Start recording</button>
</div>`,

	"notfound": `<div class="card">
    <h1>Screen not found</h1>
    <p>The screen "{{.Screen}}" does not exist.</p>
    <a class="cta" href="/">Back to start</a>
</div>`,
}
