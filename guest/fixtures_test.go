package guest

// Hand-assembled core wasm fixtures. Each is the smallest module that
// exercises one boundary behavior; offsets follow the core binary format
// (magic, version, then type/import/function/export/code sections).

// answerWasm exports "answer": () -> i32, returning 42.
var answerWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic + version
	0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7f, // type: () -> i32
	0x03, 0x02, 0x01, 0x00, // function: 1 func, type 0
	0x07, 0x0a, 0x01, 0x06, 'a', 'n', 's', 'w', 'e', 'r', 0x00, 0x00, // export "answer"
	0x0a, 0x06, 0x01, 0x04, 0x00, 0x41, 0x2a, 0x0b, // code: i32.const 42
}

// trapWasm exports "boom": () -> (), whose body is a single unreachable.
var trapWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic + version
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type: () -> ()
	0x03, 0x02, 0x01, 0x00, // function: 1 func, type 0
	0x07, 0x08, 0x01, 0x04, 'b', 'o', 'o', 'm', 0x00, 0x00, // export "boom"
	0x0a, 0x05, 0x01, 0x03, 0x00, 0x00, 0x0b, // code: unreachable
}

// hostCallWasm imports env.fail: () -> () and exports "run": () -> () that
// calls it, so a host failure has guest frames to cross.
var hostCallWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic + version
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type: () -> ()
	0x02, 0x0c, 0x01, // import section, 1 entry
	0x03, 'e', 'n', 'v', 0x04, 'f', 'a', 'i', 'l', 0x00, 0x00, // env.fail func type 0
	0x03, 0x02, 0x01, 0x00, // function: 1 func, type 0
	0x07, 0x07, 0x01, 0x03, 'r', 'u', 'n', 0x00, 0x01, // export "run" -> func 1
	0x0a, 0x06, 0x01, 0x04, 0x00, 0x10, 0x00, 0x0b, // code: call 0
}
