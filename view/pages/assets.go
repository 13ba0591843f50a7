// Package pages holds the server-rendered HTML views.
// Components live in .templ files; run `templ generate` after editing them.
package pages

//go:generate go run github.com/a-h/templ/cmd/templ generate

// CredentialsForm is the state of a register or login form
type CredentialsForm struct {
	Username string
	Error    string
}

const styleTag = `<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f4f4f7;color:#1d1d27}
nav{display:flex;gap:1rem;align-items:center;padding:.75rem 1.5rem;background:#1d1d27;color:#fff}
nav a{color:#fff;text-decoration:none}nav .spacer{flex:1}
main{max-width:720px;margin:2rem auto;padding:0 1rem}
form{display:flex;flex-direction:column;gap:.75rem;max-width:360px}
input,button{font:inherit;padding:.5rem .75rem;border-radius:6px;border:1px solid #ccc}
button{background:#4f46e5;color:#fff;border:none;cursor:pointer}
.error{background:#fee2e2;color:#991b1b;padding:.5rem .75rem;border-radius:6px}
.rooms form{max-width:none;margin-bottom:.5rem}
.rooms button{width:100%;text-align:left;background:#fff;color:inherit}
#messages{height:60vh;overflow-y:auto;background:#fff;border-radius:6px;padding:1rem;white-space:pre-wrap}
.text{padding:.25rem 0}.muted{color:#888;font-size:.8em;margin-left:.5rem}
.inputs{display:flex;gap:.5rem;margin-top:.75rem}.inputs input{flex:1}
</style>`

// Messages are rendered with textContent so usernames and bodies never
// reach the DOM as markup.
const chatScript = `<script>
(() => {
  const messages = document.getElementById("messages");
  const input = document.getElementById("message");
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const socket = new WebSocket(proto + "//" + location.host + "/ws");

  const append = (name, text, at) => {
    const row = document.createElement("div");
    row.className = "text";
    const who = document.createElement("strong");
    who.textContent = name;
    const when = document.createElement("span");
    when.className = "muted";
    when.textContent = at ? new Date(at).toLocaleTimeString() : "";
    row.append(who, " " + text, when);
    messages.appendChild(row);
    messages.scrollTop = messages.scrollHeight;
  };

  socket.onmessage = (ev) => {
    const data = JSON.parse(ev.data);
    append(data.username, data.message, data.timestamp);
  };
  socket.onclose = (ev) => append("system", "disconnected" + (ev.reason ? ": " + ev.reason : ""));

  const send = () => {
    if (input.value.trim() === "" || socket.readyState !== WebSocket.OPEN) return;
    socket.send(JSON.stringify({ data: input.value }));
    input.value = "";
  };
  document.getElementById("send").addEventListener("click", send);
  input.addEventListener("keydown", (ev) => { if (ev.key === "Enter") send(); });
})();
</script>`
