//go:build windows

// Package webgpu provides embedded WGSL compute shaders for tensor operations.
package webgpu

// WGSL compute shaders for tensor operations.
// Using string constants instead of embed for simplicity.

// workgroupSize is the default number of threads per workgroup.
const workgroupSize = 256

// binaryShader builds an element-wise binary shader: result = a <op> b.
func binaryShader(op string) string {
	return `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = a[idx] ` + op + ` b[idx];
    }
}
`
}

// unaryShader builds an element-wise unary shader: result = expr(a[idx]).
// The expression may also reference params.scalar.
func unaryShader(expr string) string {
	return `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    scalar: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = ` + expr + `;
    }
}
`
}

// Shader sources, keyed by the cache names used in ops.go.
var shaderSources = map[string]string{
	"add": binaryShader("+"),
	"sub": binaryShader("-"),
	"mul": binaryShader("*"),
	"div": binaryShader("/"),

	"mul_scalar": unaryShader("a[idx] * params.scalar"),
	"add_scalar": unaryShader("a[idx] + params.scalar"),
	"div_scalar": unaryShader("a[idx] / params.scalar"),
	"exp":        unaryShader("exp(a[idx])"),
	"sqrt":       unaryShader("sqrt(a[idx])"),
	"reciprocal": unaryShader("1.0 / a[idx]"),
}
