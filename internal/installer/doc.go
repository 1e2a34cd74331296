// Package installer runs the install and uninstall step sequences.
//
// Install resolves the virtual environment, installs OS packages listed in
// pkgs.txt, renders and deploys the wrapper script, bootstraps pip and
// installs the Python package. Uninstall removes what the manifest records,
// uninstalls the package and deletes the build directory. Steps run in order
// and the first failure aborts the run.
package installer
