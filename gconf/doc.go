/*

Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each package keeps its configuration in a single database entry. The
configuration is loaded from the genesis file and can be updated at
runtime by whoever the configuration itself declares as its owner.

*/
package gconf
