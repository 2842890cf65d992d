/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object under the "_c:<package>"
key. The object is loaded from the "conf" section of the genesis file, keyed
by the package name, for example

	{
	  "conf": {
	    "escrow": {"metadata": {"schema": 1}, "program_id": "..."}
	  }
	}

A missing configuration is a critical condition for the application and
there is no recovery path for the client. Handlers return the error and the
application must be configured correctly.
*/
package gconf
