package main

// indexHTML is the demo page served at /. It posts live input to /clean and
// renders the cleaned text next to the change breakdown.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Text Cleaner</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
textarea { width: 100%; height: 10rem; font: inherit; }
pre { background: #f4f4f4; padding: 1rem; white-space: pre-wrap; word-break: break-all; }
label { margin-right: 1.5rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.25rem 0.75rem; text-align: left; }
</style>
</head>
<body>
<h1>Text Cleaner</h1>
<p>Paste LLM output below. Invisible characters, smart punctuation, citation
placeholders and exotic whitespace are normalized on the fly.</p>
<textarea id="input" placeholder="Paste text here..."></textarea>
<p>
<label><input type="checkbox" id="keepEmoji" checked> keep emoji glue</label>
<label><input type="checkbox" id="collapseSpaces" checked> collapse spaces</label>
</p>
<h2>Cleaned</h2>
<pre id="cleaned"></pre>
<h2>Changes</h2>
<table>
<tbody id="changes"></tbody>
</table>
<script>
const input = document.getElementById('input');
const keepEmoji = document.getElementById('keepEmoji');
const collapseSpaces = document.getElementById('collapseSpaces');

async function clean() {
  const res = await fetch('/clean', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({
      text: input.value,
      keepEmoji: keepEmoji.checked,
      collapseSpaces: collapseSpaces.checked,
    }),
  });
  const data = await res.json();
  if (!res.ok) {
    document.getElementById('cleaned').textContent = 'Error: ' + data.error;
    return;
  }
  document.getElementById('cleaned').textContent = data.cleaned;
  const rows = Object.entries(data.changes)
    .map(([k, v]) => '<tr><th>' + k + '</th><td>' + v + '</td></tr>');
  document.getElementById('changes').innerHTML = rows.join('');
}

let timer;
for (const el of [input, keepEmoji, collapseSpaces]) {
  el.addEventListener('input', () => {
    clearTimeout(timer);
    timer = setTimeout(clean, 150);
  });
}
</script>
</body>
</html>
`
