package server

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>forcegraph</title>
  <style>
    body {
      font-family: 'Helvetica Neue', Arial, sans-serif;
      margin: 0;
      padding: 20px;
      background: #f5f5f5;
      color: #333;
    }
    .container {
      max-width: 900px;
      margin: 0 auto;
      background: white;
      padding: 30px;
      border-radius: 8px;
      box-shadow: 0 2px 10px rgba(0,0,0,0.1);
    }
    h1 {
      margin-top: 0;
      border-bottom: 2px solid #eee;
      padding-bottom: 10px;
    }
    #stats { color: #808080; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <h1>forcegraph</h1>
    <div id="frame"></div>
    <p id="stats"></p>
  </div>
  <script>
    async function refresh() {
      const svg = await fetch('/frame.svg').then(r => r.text());
      document.getElementById('frame').innerHTML = svg;
      const frame = await fetch('/api/frame').then(r => r.json());
      document.getElementById('stats').textContent =
        frame.nodes.length + ' nodes, ' + frame.edges.length + ' edges, energy ' + frame.energy.toFixed(3);
    }
    setInterval(refresh, 100);
    refresh();
  </script>
</body>
</html>
`
