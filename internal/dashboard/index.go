//go:build !tinygo

package dashboard

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"altimeter/app"
	"altimeter/internal/buildinfo"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Altimeter</title>
<style>
body { font-family: sans-serif; margin: 20px; background: #f0f0f0; }
.box { max-width: 600px; margin: 0 auto; background: #fff; padding: 20px; border-radius: 10px; }
.grid { display: grid; grid-template-columns: 1fr 1fr; gap: 15px; }
.card { background: #f8f9fa; padding: 15px; border-radius: 8px; border-left: 4px solid #007bff; }
.label { font-size: 14px; color: #666; }
.value { font-size: 24px; font-weight: bold; }
.ok { color: #28a745; } .err { color: #dc3545; }
button { margin: 5px; padding: 8px 16px; }
.foot { text-align: center; color: #666; font-size: 12px; }
</style>
</head>
<body>
<div class="box">
<h1>Altimeter</h1>
<div class="grid">
<div class="card"><div class="label">Altitude (m)</div><div class="value" id="altitude">{{printf "%.1f" .Snap.Altitude}}</div></div>
<div class="card"><div class="label">Maximum (m)</div><div class="value" id="max_altitude">{{printf "%.1f" .Snap.MaxAltitude}}</div></div>
<div class="card"><div class="label">Temperature (°C)</div><div class="value" id="temperature">{{printf "%.1f" .Snap.Temperature}}</div></div>
<div class="card"><div class="label">Pressure (hPa)</div><div class="value" id="pressure">{{printf "%.1f" .Snap.Pressure}}</div></div>
</div>
<p>Barometer: <span id="bmp_status" class="{{if .Snap.BMPStatus}}ok{{else}}err{{end}}">{{if .Snap.BMPStatus}}Online{{else}}Offline{{end}}</span>
 IMU: <span id="imu_status" class="{{if .Snap.IMUStatus}}ok{{else}}err{{end}}">{{if .Snap.IMUStatus}}Online{{else}}Offline{{end}}</span>
 Display: <span id="display_enabled">{{if .Snap.DisplayEnabled}}On{{else}}Off{{end}}</span></p>
<p>
<button onclick="post('/api/reset')">Zero altitude</button>
<button onclick="post('/api/mode')">Next mode</button>
<button onclick="post('/api/display')">Toggle display</button>
<button onclick="post('/api/reset-accel')">Reset max accel</button>
<a href="/api/log">Flight log</a> ({{.LogLines}} records)
</p>
<p class="foot">Up {{.Uptime}}, {{.Heap}} free, build {{.Build}}</p>
</div>
<script>
function set(id, v) { document.getElementById(id).textContent = v; }
function update() {
  fetch('/api/data').then(r => r.json()).then(d => {
    set('altitude', d.altitude.toFixed(1));
    set('max_altitude', d.max_altitude.toFixed(1));
    set('temperature', d.temperature.toFixed(1));
    set('pressure', d.pressure.toFixed(1));
    set('bmp_status', d.bmp_status ? 'Online' : 'Offline');
    document.getElementById('bmp_status').className = d.bmp_status ? 'ok' : 'err';
    set('imu_status', d.imu_status ? 'Online' : 'Offline');
    document.getElementById('imu_status').className = d.imu_status ? 'ok' : 'err';
    set('display_enabled', d.display_enabled ? 'On' : 'Off');
  });
}
function post(path) { fetch(path, {method: 'POST'}).then(update); }
setInterval(update, 2000);
</script>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.src.Snapshot()
	now := time.Now()
	up := now.Add(-time.Duration(snap.Uptime) * time.Millisecond)

	data := struct {
		Snap     app.Snapshot
		Uptime   string
		Heap     string
		LogLines string
		Build    string
	}{
		Snap:     snap,
		Uptime:   strings.TrimSpace(humanize.RelTime(up, now, "", "")),
		Heap:     humanize.Bytes(snap.FreeHeap),
		LogLines: humanize.Comma(int64(snap.LogLines)),
		Build:    buildinfo.Short(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.log.WithError(err).Error("render index")
	}
}
