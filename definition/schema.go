package definition

// schemaSrc constrains CUE definition files. It is closed when compiled, so
// unknown top-level fields are rejected.
const schemaSrc = `
#Transition: close({
	state:     string & != ""
	read:      string
	action:    "L" | "R" | "W" | "X"
	write?:    string
	program?:  string
	branches?: [=~"^-?[0-9]+$"]: string
	next:      string & != ""
})

name?: string
alphabet?: close({
	preset?:  string
	symbols?: string
	expr?:    string
	empty?:   string
})
initial:   string & != ""
accepting: [...string] | *[]
states?:   [...string]
transitions: [...#Transition]
`
