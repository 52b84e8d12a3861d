// Package effect provides OpenGL implementations of the render.Effect
// capability interfaces: a basic world/view/projection effect and a skinned
// variant that consumes a bone transform table.
//
// Effects hold per-draw constants CPU-side and upload them in Apply, so one
// shared instance can be reconfigured between draws by the scene graph. Each
// effect exposes its program via Program() so the glrender device can resolve
// vertex attribute locations against it.
package effect
