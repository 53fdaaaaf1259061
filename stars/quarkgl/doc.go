// Package quarkgl is the small software 3D engine that hosts the star field.
//
// It owns the camera, lights and renderable objects, rasterizes them into a
// caller-provided Target and answers ray queries against the same objects.
//
// Pipeline (fixed):
//
//	Scene → Transform → Projection → Clipping → Rasterization → Frame output.
//
// Objects come in three kinds: triangle meshes (depth tested and written),
// point clouds (depth tested, alpha blended) and camera-facing sprites
// (depth tested, alpha blended, never written to depth). Every object may carry
// opaque user data which is returned with ray hits; the engine never looks at it.
package quarkgl
