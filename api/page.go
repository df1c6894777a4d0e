package api

import (
	"net/http"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>qrtool — QR Code Generator</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    display: flex;
    justify-content: center;
    padding: 32px 16px;
  }
  .card {
    background: #1a1a1a;
    border: 1px solid #333;
    border-radius: 16px;
    padding: 32px;
    max-width: 720px;
    width: 100%;
  }
  h1 { font-size: 20px; font-weight: 600; margin-bottom: 8px; }
  .subtitle { color: #888; font-size: 14px; margin-bottom: 24px; }
  label { display: block; font-size: 13px; color: #aaa; margin: 12px 0 4px; }
  textarea, select, input {
    width: 100%;
    background: #111;
    color: #e0e0e0;
    border: 1px solid #333;
    border-radius: 8px;
    padding: 8px 10px;
    font-size: 14px;
  }
  textarea { height: 72px; resize: vertical; }
  .row { display: flex; gap: 12px; }
  .row > div { flex: 1; }
  #preview {
    width: 280px; height: 280px;
    margin: 20px auto 8px;
    display: flex;
    align-items: center;
    justify-content: center;
    background: #fff;
    border-radius: 12px;
  }
  #preview img { max-width: 260px; max-height: 260px; }
  .waiting { color: #888; font-size: 13px; }
  #message { text-align: center; font-size: 13px; color: #888; min-height: 18px; margin-bottom: 12px; }
  #message.error { color: #f87171; }
  #message.ok { color: #4ade80; }
  button {
    display: block;
    margin: 0 auto;
    background: #2563eb;
    color: #fff;
    border: 0;
    border-radius: 8px;
    padding: 10px 24px;
    font-size: 14px;
    cursor: pointer;
  }
  button:hover { background: #1d4ed8; }
  h2 { font-size: 14px; font-weight: 600; margin: 24px 0 8px; color: #aaa; }
  #recent { list-style: none; font-size: 13px; color: #888; }
  #recent li { padding: 4px 0; border-bottom: 1px solid #222; }
</style>
</head>
<body>
<div class="card">
  <h1>qrtool</h1>
  <p class="subtitle">Generate QR codes as PNG or SVG. The preview updates as you type.</p>

  <label for="text">Data / URL to encode</label>
  <textarea id="text" placeholder="https://example.com"></textarea>

  <div class="row">
    <div>
      <label for="format">Format</label>
      <select id="format">
        <option value="png" selected>PNG</option>
        <option value="svg">SVG</option>
      </select>
    </div>
    <div>
      <label for="level">Error level</label>
      <select id="level">
        <option>L</option>
        <option selected>M</option>
        <option>Q</option>
        <option>H</option>
      </select>
    </div>
    <div>
      <label for="svg_method">SVG method</label>
      <select id="svg_method" disabled>
        <option selected>path</option>
        <option>basic</option>
        <option>fragment</option>
      </select>
    </div>
  </div>

  <div class="row">
    <div>
      <label for="box_size">Box size</label>
      <input id="box_size" type="number" min="1" max="50" value="10">
    </div>
    <div>
      <label for="border">Border</label>
      <input id="border" type="number" min="0" max="20" value="4">
    </div>
    <div>
      <label for="filename">Save as</label>
      <input id="filename" type="text" value="qr_output">
    </div>
  </div>

  <div id="preview"><span class="waiting">Enter data to see a preview</span></div>
  <div id="message"></div>
  <button id="save">Save</button>

  <h2>Recent</h2>
  <ul id="recent"></ul>
</div>
<script>
(function() {
  var fields = ['text', 'format', 'level', 'svg_method', 'box_size', 'border'];
  var preview = document.getElementById('preview');
  var message = document.getElementById('message');
  var timer = null;

  function value(id) { return document.getElementById(id).value; }

  function params() {
    var p = new URLSearchParams();
    fields.forEach(function(id) { p.set(id, value(id)); });
    return p;
  }

  function setMessage(text, cls) {
    message.textContent = text || '';
    message.className = cls || '';
  }

  function updatePreview() {
    var text = value('text').trim();
    document.getElementById('svg_method').disabled = value('format') !== 'svg';
    if (!text) {
      preview.innerHTML = '<span class="waiting">Enter data to see a preview</span>';
      setMessage('');
      return;
    }
    fetch('/api/preview?' + params().toString())
      .then(function(r) {
        if (!r.ok) { return r.json().then(function(e) { throw new Error(e.error); }); }
        return r.blob();
      })
      .then(function(blob) {
        var img = document.createElement('img');
        img.alt = 'QR preview';
        img.src = URL.createObjectURL(blob);
        preview.innerHTML = '';
        preview.appendChild(img);
        setMessage('');
      })
      .catch(function(err) {
        preview.innerHTML = '<span class="waiting">—</span>';
        setMessage(err.message, 'error');
      });
  }

  // Debounce repeated preview calls while the user is typing.
  function schedulePreview() {
    clearTimeout(timer);
    timer = setTimeout(updatePreview, 300);
  }

  fields.forEach(function(id) {
    document.getElementById(id).addEventListener('input', schedulePreview);
  });

  function loadRecent() {
    fetch('/api/history?limit=10')
      .then(function(r) { return r.ok ? r.json() : {generations: []}; })
      .then(function(data) {
        var list = document.getElementById('recent');
        list.innerHTML = '';
        (data.generations || []).forEach(function(g) {
          var li = document.createElement('li');
          li.textContent = g.payload + ' → ' + (g.output_path || '(preview)') +
            ' [' + g.format.toUpperCase() + ', ' + g.level + ']';
          list.appendChild(li);
        });
      })
      .catch(function() {});
  }

  document.getElementById('save').addEventListener('click', function() {
    var body = {
      text: value('text'),
      format: value('format'),
      level: value('level'),
      svg_method: value('svg_method'),
      box_size: parseInt(value('box_size'), 10),
      border: parseInt(value('border'), 10),
      filename: value('filename')
    };
    fetch('/api/generate', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify(body)
    })
      .then(function(r) { return r.json().then(function(d) { return {ok: r.ok, data: d}; }); })
      .then(function(res) {
        if (!res.ok) { throw new Error(res.data.error); }
        setMessage('Saved to ' + res.data.path, 'ok');
        loadRecent();
      })
      .catch(function(err) { setMessage(err.message, 'error'); });
  });

  loadRecent();
})();
</script>
</body>
</html>`
