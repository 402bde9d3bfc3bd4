// Package publish downloads the Deno binary that performs JSR publishing and
// runs it against a project directory.
//
// It defines the MetadataResolver which discovers the latest release and its
// platform download URL, the BinaryCache which keeps one downloaded binary per
// version and platform under a shared cache folder, and the Runner which
// assembles the publish invocation with its stability flags, optional dry-run
// and slow-type toggles, and an authentication token resolved from a flag or a
// configured token source.
package publish
