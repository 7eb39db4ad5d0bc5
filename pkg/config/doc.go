// Package config loads mock definitions for the bodytmpl server.
//
// A configuration file is YAML or JSON, chosen by extension. It lists mocks,
// each pairing a request route with a templated response, and may pull in
// more mocks from other files through include globs ("mocks/**/*.yaml").
//
//	version: "1"
//	server:
//	  listen: ":8080"
//	include:
//	  - mocks/**/*.yaml
//	mocks:
//	  - name: greeting
//	    request:
//	      method: GET
//	      path: /hello
//	    response:
//	      status: 200
//	      contentType: text/plain
//	      template:
//	        text: "Hello ${user}, today is ${now('yyyy-MM-dd')}"
//	        vars:
//	          user:
//	            header: X-User
//
// Documents are checked against an embedded JSON Schema first and then
// semantically: variable names, template sources and duplicate routes.
package config
