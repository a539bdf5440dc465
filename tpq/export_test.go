package tpq

// Exported for tests.
var MapletEnd = mapletEnd
