package internal

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/flowdeck/pkg/extension"
	"github.com/dmitrymomot/flowdeck/pkg/user"
)

// loginPage renders the credential form. The form submits the login
// action and follows the structured payload: success navigates home,
// failure lands in the error paragraph. errMsg has already been stripped
// of HTML by the caller.
func loginPage(errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Flowdeck - Login</title>
<style>main.login{max-width:20rem;margin:4rem auto;font-family:sans-serif}label{display:block;margin:.5rem 0}p.error{color:#b00}</style>
</head>
<body>
<main class="login">
<h1>Flowdeck</h1>
<form method="post" action="/">
<input type="hidden" name="action" value="login">
<label>Username <input type="text" name="username" autocomplete="username"></label>
<label>Password <input type="password" name="password" autocomplete="current-password"></label>
<button type="submit">Sign in</button>
</form>
`); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<p class=\"error\">%s</p>\n", html.EscapeString(errMsg)); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<script>
const form = document.querySelector("form");
form.addEventListener("submit", async (ev) => {
	ev.preventDefault();
	const resp = await fetch(form.action, {
		method: "POST",
		body: new URLSearchParams(new FormData(form)),
	});
	const body = await resp.json();
	if (body.status === "success") {
		window.location.replace("/");
	} else {
		document.querySelector("p.error").textContent = body.error || "login failed";
	}
});
</script>
</main>
</body>
</html>
`)
		return err
	})
}

// indexPage lists the visible viewers for a signed-in user.
func indexPage(viewers []*extension.LoadedExtension, u *user.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Flowdeck</title>
<link rel="stylesheet" href="/css/flowdeck.css">
</head>
<body>
<main class="index">
`); err != nil {
			return err
		}
		if u != nil {
			if _, err := fmt.Fprintf(w, "<p>Signed in as %s. <a href=\"/?logout\">Log out</a></p>\n", html.EscapeString(u.ID)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "<ul class=\"viewers\">\n"); err != nil {
			return err
		}
		for _, v := range viewers {
			if _, err := fmt.Fprintf(w, "<li><a href=\"/%s\">%s</a>",
				html.EscapeString(v.Descriptor.MountPath),
				html.EscapeString(v.Descriptor.Name),
			); err != nil {
				return err
			}
			// AboutHTML is sanitized at bundle load, safe to emit raw.
			if v.Descriptor.AboutHTML != "" {
				if _, err := fmt.Fprintf(w, "\n<div class=\"about\">%s</div>", v.Descriptor.AboutHTML); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</li>\n"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>
</main>
</body>
</html>
`)
		return err
	})
}
