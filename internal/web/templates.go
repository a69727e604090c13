package web

import "html/template"

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>reportbot login</title>
  <style>
    body { font-family: sans-serif; max-width: 24rem; margin: 4rem auto; }
    input { display: block; width: 100%; margin: .5rem 0; padding: .4rem; }
    .error { color: #b00; }
  </style>
</head>
<body>
  <h1>reportbot</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <form method="post" action="/login">
    <input type="text" name="username" placeholder="Username" autofocus>
    <input type="password" name="password" placeholder="Password">
    <button type="submit">Sign in</button>
  </form>
</body>
</html>
`))

var schedulersTmpl = template.Must(template.New("schedulers").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>reportbot schedulers</title>
  <style>
    body { font-family: sans-serif; max-width: 56rem; margin: 2rem auto; }
    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid #ccc; padding: .4rem .6rem; text-align: left; }
    form.inline { display: inline; }
    .flash { color: #070; }
    .error { color: #b00; }
  </style>
</head>
<body>
  <h1>Schedulers</h1>
  <p>
    <form class="inline" method="get" action="/clickup/send-report">
      <input type="text" name="date" placeholder="YYYY-MM-DD (optional)">
      <button type="submit">Send report now</button>
    </form>
    <form class="inline" method="post" action="/logout">
      <button type="submit">Logout</button>
    </form>
  </p>
  {{if .Flash}}<p class="flash">{{.Flash}}</p>{{end}}
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <table>
    <tr><th>Name</th><th>Run time</th><th>Days</th><th>Last run</th><th>Active</th><th></th></tr>
    {{range .Schedulers}}
    <tr>
      <td>{{.Name}}</td>
      <td>{{.RunTime}}</td>
      <td>{{range $i, $d := .DaysOfWeek}}{{if $i}}, {{end}}{{$d}}{{end}}</td>
      <td>{{if .LastRun}}{{.LastRun.Format "2006-01-02 15:04"}}{{else}}never{{end}}</td>
      <td>{{if .IsActive}}yes{{else}}no{{end}}</td>
      <td>
        <form class="inline" method="post" action="/schedulers/{{.ID}}/toggle">
          <button type="submit">{{if .IsActive}}Disable{{else}}Enable{{end}}</button>
        </form>
        <form class="inline" method="post" action="/schedulers/{{.ID}}/delete">
          <button type="submit">Delete</button>
        </form>
      </td>
    </tr>
    {{end}}
  </table>
  <h2>New scheduler</h2>
  <form method="post" action="/schedulers">
    <p><input type="text" name="name" placeholder="Name" required></p>
    <p><input type="text" name="run_time" placeholder="HH:MM" required></p>
    <p>
      {{range .Weekdays}}
      <label><input type="checkbox" name="days_of_week" value="{{.}}"> {{.}}</label>
      {{end}}
    </p>
    <p><label><input type="checkbox" name="is_active" value="1" checked> Active</label></p>
    <button type="submit">Create</button>
  </form>
</body>
</html>
`))
