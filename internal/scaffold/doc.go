// Package scaffold writes the fixed Ansible project skeleton. It powers the
// root ansible-scaffold command, producing inventories for each environment,
// group and host variables, a site playbook, the common and webserver roles,
// an ansible.cfg and a README. The layout is declared in the embedded
// layout.yaml and the file bodies live under skeleton/.
package scaffold
