package render

const layoutTmpl = `{{define "layout"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Title}}</title>
<style>
:root{ --muted:#6b7280; --line:#e5e7eb; --accent:#b45309; }
*{box-sizing:border-box}
body{margin:0;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial;color:#111827;background:#fafaf9}
header{display:flex;justify-content:space-between;align-items:center;padding:16px 24px;border-bottom:1px solid var(--line)}
header a{color:inherit;text-decoration:none;font-weight:700}
main{max-width:1100px;margin:0 auto;padding:24px}
.controls{display:flex;gap:12px;margin-bottom:20px}
.controls input,.controls select{padding:8px 10px;border:1px solid var(--line);border-radius:8px;font:inherit}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(260px,1fr));gap:16px}
.card{display:block;color:inherit;text-decoration:none;background:#fff;border:1px solid var(--line);border-radius:12px;padding:12px}
.thumb{width:100%;height:160px;object-fit:cover;border-radius:8px;background:#f3f4f6}
.meta,.recipe-meta{color:var(--muted);font-size:13px;margin-top:4px}
.pills{display:flex;flex-wrap:wrap;gap:6px;margin-top:8px}
.pill{background:#fef3c7;color:var(--accent);border-radius:999px;padding:2px 8px;font-size:12px}
.muted{color:var(--muted)}
.recipe-article{background:#fff;border:1px solid var(--line);border-radius:12px;padding:24px}
.recipe-hero{display:grid;grid-template-columns:2fr 1fr;gap:24px}
.recipe-hero img{width:100%;border-radius:8px}
.section-title{font-weight:700;margin:20px 0 8px}
</style>
</head>
<body>
<header>
  <a href="{{.Paths.Index}}">Recipes</a>
  <small class="muted">Last update: <span id="lastUpdate">{{.View.LastUpdate}}</span></small>
</header>
<main>
{{template "content" .}}
</main>
</body>
</html>
{{end}}`

const indexTmpl = `{{define "content"}}
<form class="controls" method="get" action="{{.Paths.Index}}">
  <input id="search" type="search" name="q" value="{{.Index.Query}}" placeholder="Search recipes, tags, ingredients" />
  <select id="categoryFilter" name="category">
  {{- range .Index.Categories}}
    <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
  {{- end}}
  </select>
  <button type="submit">Filter</button>
</form>
<p id="empty" class="muted"{{if not .Index.Empty}} hidden{{end}}>No recipes match your search.</p>
<section id="cardGrid" class="grid">
{{- if not .Index.Empty}}
{{- range .Index.Cards}}
  <a class="card" href="{{href .Target}}">
    <article>
      {{- if .Thumbnail.Placeholder}}
      <div class="thumb" aria-hidden="true"></div>
      {{- else}}
      <img class="thumb" src="{{cardsrc .}}" alt="{{.Thumbnail.Alt}}">
      {{- end}}
      <div>
        <h3>{{.Title}}</h3>
        <div class="meta">{{.Meta}}</div>
        <div class="pills">{{range .Tags}}<span class="pill">{{.}}</span>{{end}}</div>
        <p class="muted">{{.Description}}</p>
      </div>
    </article>
  </a>
{{- end}}
{{- end}}
</section>
{{end}}`

const detailTmpl = `{{define "content"}}
<section id="recipe">
{{- with .View.Detail}}
  <div class="recipe-article">
    <div class="recipe-hero">
      <div class="recipe-head">
        <h2>{{.Title}}</h2>
        <div class="recipe-meta">{{.Meta}}</div>
        <div class="pills">{{range .Tags}}<span class="pill">{{.}}</span> {{end}}</div>
        <p class="muted">{{.Description}}</p>
      </div>
      <div>
        {{- if .HasImage}}
        <img alt="{{.Title}}" src="{{imgsrc .Image}}">
        {{- end}}
        <div class="muted">
          <div><strong>Prep:</strong> {{.PrepTime}}</div>
          <div><strong>Cook:</strong> {{.CookTime}}</div>
          <div><strong>Difficulty:</strong> {{.Difficulty}}</div>
        </div>
      </div>
    </div>

    <div class="section-title">Ingredients</div>
    <ul id="ingredients">
    {{- range .Ingredients}}
      <li>{{if .Bold}}<strong>{{.Qty}}</strong> {{end}}{{.Item}}</li>
    {{- end}}
    </ul>

    <div class="section-title">Method</div>
    <ol id="steps">
    {{- range .Steps}}
      <li>{{.}}</li>
    {{- end}}
    </ol>
    {{- if .HasNotes}}

    <div class="section-title">Notes</div>
    <p id="notes" class="muted">{{.Notes}}</p>
    {{- end}}
  </div>
{{- else}}
  <div class="recipe-article"><p>{{.View.Message}}</p></div>
{{- end}}
</section>
{{end}}`
