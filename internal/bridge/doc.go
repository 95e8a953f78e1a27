// Package bridge lets Code Wall run scripts inside a host application.
//
// A host (for example a DCC session) starts a Server that accepts websocket
// connections and runs requested scripts on its own runner.Runner. Clients
// use a Client, which is itself a runner.Runner, so the wall does not know
// whether a script runs locally or remotely.
//
// Messages are JSON:
//
//	{"id":"1","type":"run","path":"/scripts/tool.py","language":"python"}
//	{"id":"1","ok":true,"exit_code":0,"output":"...","duration_ms":12}
//
// Bridges can advertise themselves over mDNS as _codewall._tcp; a Scanner
// lists the ones reachable on the local network.
package bridge
