package web

import (
	"html/template"
	"log"
	"net/http"
)

var pageTemplates = template.Must(template.New("pages").Parse(pageHTML))

func (s *Server) renderPage(w http.ResponseWriter, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("failed to render %s page: %v", name, err)
	}
}

const pageHTML = `
{{define "head"}}
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>clawlite</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; background: #f5f6f8; margin: 0; }
.card { max-width: 420px; margin: 80px auto; background: #fff; border-radius: 8px; padding: 24px; box-shadow: 0 1px 4px rgba(0,0,0,.1); }
.wide { max-width: 720px; margin: 24px auto; }
h1 { font-size: 1.3em; margin-top: 0; }
input, textarea { width: 100%; box-sizing: border-box; padding: 8px; margin: 6px 0 12px; border: 1px solid #ccd; border-radius: 4px; }
button { background: #2563eb; color: #fff; border: 0; border-radius: 4px; padding: 8px 16px; cursor: pointer; }
.error { color: #b91c1c; }
nav { text-align: right; margin-bottom: 8px; }
nav a { margin-left: 12px; color: #2563eb; text-decoration: none; }
#messages { height: 420px; overflow-y: auto; border: 1px solid #eee; border-radius: 4px; padding: 8px; margin-bottom: 12px; }
.msg { margin: 6px 0; padding: 8px 10px; border-radius: 6px; white-space: pre-wrap; }
.msg.user { background: #dbeafe; }
.msg.assistant { background: #f1f5f9; }
.msg.system { background: #fef9c3; font-size: .85em; }
#composer { display: flex; gap: 8px; }
#composer input { flex: 1; margin: 0; }
</style>
</head>
<body>
{{end}}

{{define "setup"}}
{{template "head" .}}
<div class="card">
<h1>First-time setup</h1>
<p>Choose the admin password. You will use it to sign in from now on.</p>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="/setup">
<input type="password" name="password" placeholder="Admin password" autofocus>
<button type="submit">Save</button>
</form>
</div>
</body></html>
{{end}}

{{define "login"}}
{{template "head" .}}
<div class="card">
<h1>Sign in</h1>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="/login">
<input type="password" name="password" placeholder="Admin password" autofocus>
<button type="submit">Sign in</button>
</form>
</div>
</body></html>
{{end}}

{{define "chat"}}
{{template "head" .}}
<div class="card wide">
<nav><a href="/admin">Settings</a><a href="/logout">Logout</a></nav>
<h1>Assistant</h1>
<div id="messages"></div>
<form id="composer">
<input id="message" placeholder="Type a message, or paste a URL to summarize..." autocomplete="off" autofocus>
<button type="submit">Send</button>
</form>
</div>
<script>
const box = document.getElementById('messages');
function add(role, text) {
  const div = document.createElement('div');
  div.className = 'msg ' + role;
  div.textContent = text;
  box.appendChild(div);
  box.scrollTop = box.scrollHeight;
}
fetch('/api/history').then(r => r.json()).then(d => {
  (d.history || []).forEach(m => add(m.role, m.content));
});
document.getElementById('composer').addEventListener('submit', async e => {
  e.preventDefault();
  const input = document.getElementById('message');
  const text = input.value.trim();
  if (!text) return;
  input.value = '';
  add('user', text);
  const r = await fetch('/api/chat', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({message: text})
  });
  const d = await r.json();
  add('assistant', d.reply || d.error || 'No reply');
});
</script>
</body></html>
{{end}}

{{define "admin"}}
{{template "head" .}}
<div class="card wide">
<nav><a href="/chat">Chat</a><a href="/logout">Logout</a></nav>
<h1>Settings</h1>
<form id="config">
<label>OpenAI API base</label>
<input name="openai_api_base" value="{{index .Config "openai_api_base"}}">
<label>OpenAI API key</label>
<input name="openai_api_key" value="{{index .Config "openai_api_key"}}">
<label>Model</label>
<input name="model_name" value="{{index .Config "model_name"}}">
<label>System prompt</label>
<textarea name="system_prompt" rows="3">{{index .Config "system_prompt"}}</textarea>
<label>Telegram bot token</label>
<input name="telegram_bot_token" value="{{index .Config "telegram_bot_token"}}">
<label>Telegram webhook URL</label>
<input name="telegram_webhook_url" value="{{index .Config "telegram_webhook_url"}}">
<label><input type="checkbox" name="browser_enabled" style="width:auto" {{if index .Config "browser_enabled"}}checked{{end}}> Browser tool enabled</label>
<br><br>
<button type="submit">Save</button> <span id="saved"></span>
</form>
</div>
<script>
document.getElementById('config').addEventListener('submit', async e => {
  e.preventDefault();
  const f = e.target;
  const body = {};
  for (const el of f.elements) {
    if (!el.name) continue;
    body[el.name] = el.type === 'checkbox' ? el.checked : el.value;
  }
  const r = await fetch('/api/config', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body)
  });
  const d = await r.json();
  document.getElementById('saved').textContent = d.status === 'success' ? 'Saved.' : 'Save failed.';
});
</script>
</body></html>
{{end}}
`
